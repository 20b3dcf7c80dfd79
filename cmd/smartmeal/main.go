// smartmealコマンドのエントリポイント。
// セッショントークンの保存、ルート表の解決、APIへのリクエスト送信を行う。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/smartmeal/internal/cli"
	"github.com/nao1215/smartmeal/internal/config"
)

func main() {
	_, _ = config.LoadDotEnvUp(0)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.App().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
