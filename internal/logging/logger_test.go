package logging

import (
	"testing"

	"go.uber.org/zap"
)

// TestNew はNew関数を検証する。
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("本番環境ではDebugが無効になること", func(t *testing.T) {
		t.Parallel()

		logger, err := New("production", "info")
		if err != nil {
			t.Fatalf("New()でエラーが発生: %v", err)
		}
		if logger.Core().Enabled(zap.DebugLevel) {
			t.Error("infoレベルでDebugが有効になっている")
		}
	})

	t.Run("指定したレベルが反映されること", func(t *testing.T) {
		t.Parallel()

		logger, err := New("local", "debug")
		if err != nil {
			t.Fatalf("New()でエラーが発生: %v", err)
		}
		if !logger.Core().Enabled(zap.DebugLevel) {
			t.Error("debugレベルでDebugが無効になっている")
		}
	})

	t.Run("不正なレベルはエラーになること", func(t *testing.T) {
		t.Parallel()

		if _, err := New("local", "loud"); err == nil {
			t.Error("New()がエラーを返すべきだが、nilが返った")
		}
	})
}
