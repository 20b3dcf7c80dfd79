package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// defaultDotEnvDepth はLoadDotEnvUpが遡る親ディレクトリ数の既定値。
const defaultDotEnvDepth = 6

// LoadDotEnvUp はカレントディレクトリから親へ向かって ".env" を探し、最初に見つかったものを読み込む。
// 既に設定済みの環境変数は上書きしない。見つからない場合は何もしない。
func LoadDotEnvUp(maxDepth int) (string, error) {
	if maxDepth <= 0 {
		maxDepth = defaultDotEnvDepth
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for i := 0; i <= maxDepth; i++ {
		p := filepath.Join(dir, ".env")
		if _, err := os.Stat(p); err == nil {
			return p, godotenv.Load(p)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}
