package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/smartmeal/pkg/session"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// TokenCommand はtokenサブコマンド群を返す。
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "セッショントークンを管理する",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "ログインで取得したトークンを保存する",
				ArgsUsage: "TOKEN",
				Action:    tokenSet,
			},
			{
				Name:   "show",
				Usage:  "保存されているトークンを表示する",
				Action: tokenShow,
			},
			{
				Name:    "clear",
				Aliases: []string{"logout"},
				Usage:   "保存されているトークンを削除する",
				Action:  tokenClear,
			},
		},
	}
}

func tokenSet(c *cli.Context) error {
	if c.NArg() != 1 || c.Args().First() == "" {
		return errors.New("トークンを1つ指定してください")
	}
	e, err := envFrom(c)
	if err != nil {
		return err
	}
	if err := e.session.SetToken(c.Context, c.Args().First()); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "トークンを保存しました")
	return nil
}

func tokenShow(c *cli.Context) error {
	e, err := envFrom(c)
	if err != nil {
		return err
	}
	token, ok, err := e.session.Token(c.Context)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(c.App.Writer, "トークンは保存されていません")
		return nil
	}

	w := c.App.Writer
	fmt.Fprintf(w, "token:   %s\n", token)

	// JWTでなければトークンのみ表示する
	claims, err := session.Inspect(token)
	if err != nil {
		e.logger.Debug("トークンをJWTとして解析できません", zap.Error(err))
		return nil
	}
	if claims.Subject != "" {
		fmt.Fprintf(w, "subject: %s\n", claims.Subject)
	}
	if claims.Issuer != "" {
		fmt.Fprintf(w, "issuer:  %s\n", claims.Issuer)
	}
	if claims.ExpiresAt != nil {
		status := ""
		if claims.Expired(time.Now()) {
			status = " (期限切れ)"
		}
		fmt.Fprintf(w, "expires: %s%s\n", claims.ExpiresAt.Format(time.RFC3339), status)
	}
	return nil
}

func tokenClear(c *cli.Context) error {
	e, err := envFrom(c)
	if err != nil {
		return err
	}
	if err := e.session.Clear(c.Context); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "トークンを削除しました")
	return nil
}
