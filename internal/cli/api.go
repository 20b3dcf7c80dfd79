package cli

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/urfave/cli/v2"
)

// APICommand はapiサブコマンド群を返す。
func APICommand() *cli.Command {
	dataFlag := &cli.StringFlag{
		Name:    "data",
		Aliases: []string{"d"},
		Usage:   "送信するJSONボディ",
	}
	return &cli.Command{
		Name:  "api",
		Usage: "保存されているトークンを付与してAPIにリクエストを送信する",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "GETリクエストを送信する",
				ArgsUsage: "PATH",
				Action:    apiAction(http.MethodGet),
			},
			{
				Name:      "delete",
				Usage:     "DELETEリクエストを送信する",
				ArgsUsage: "PATH",
				Action:    apiAction(http.MethodDelete),
			},
			{
				Name:      "post",
				Usage:     "POSTリクエストを送信する",
				ArgsUsage: "PATH",
				Flags:     []cli.Flag{dataFlag},
				Action:    apiAction(http.MethodPost),
			},
			{
				Name:      "put",
				Usage:     "PUTリクエストを送信する",
				ArgsUsage: "PATH",
				Flags:     []cli.Flag{dataFlag},
				Action:    apiAction(http.MethodPut),
			},
		},
	}
}

// apiAction はmethodでリクエストを送信し、ステータスとボディを表示するActionを返す。
// 4xx・5xxの場合は表示した上でエラーを返す。
func apiAction(method string) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("パスを1つ指定してください")
		}
		e, err := envFrom(c)
		if err != nil {
			return err
		}

		var body io.Reader
		if data := c.String("data"); data != "" {
			body = strings.NewReader(data)
		}
		req, err := e.client.NewRequest(c.Context, method, c.Args().First(), body)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := e.client.Do(req)
		if err != nil {
			return fmt.Errorf("APIリクエストの送信に失敗: %w", err)
		}
		defer resp.Body.Close()

		fmt.Fprintln(c.App.Writer, resp.Status)
		if _, err := io.Copy(c.App.Writer, resp.Body); err != nil {
			return fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
		}
		fmt.Fprintln(c.App.Writer)

		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("APIがエラーを返しました: status=%d", resp.StatusCode)
		}
		return nil
	}
}
