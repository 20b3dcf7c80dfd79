package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/nao1215/smartmeal/internal/router"
	"github.com/urfave/cli/v2"
)

// RouteCommand はrouteサブコマンド群を返す。
func RouteCommand() *cli.Command {
	return &cli.Command{
		Name:  "route",
		Usage: "画面のルート表を参照する",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "ルート表を一覧表示する",
				Action: routeList,
			},
			{
				Name:      "resolve",
				Usage:     "保存されているトークンでパスの遷移先を判定する",
				ArgsUsage: "PATH",
				Action:    routeResolve,
			},
		},
	}
}

func routeList(c *cli.Context) error {
	e, err := envFrom(c)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tNAME\tVIEW\tAUTH\tPROPS")
	for _, r := range e.guard.Table().Routes() {
		name, view := r.Name, string(r.View)
		if r.IsRedirect() {
			name, view = "-", "-> "+r.Redirect
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Path, name, view, yesNo(r.RequiresAuth), yesNo(r.Props))
	}
	return tw.Flush()
}

func routeResolve(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("パスを1つ指定してください")
	}
	e, err := envFrom(c)
	if err != nil {
		return err
	}

	d, err := e.guard.Navigate(c.Context, c.Args().First(), e.session)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "requested: %s\n", d.Requested)
	fmt.Fprintf(w, "route:     %s\n", d.Route.Name)
	fmt.Fprintf(w, "view:      %s\n", d.Route.View)
	fmt.Fprintf(w, "path:      %s\n", d.Path)
	if d.Route.Props {
		for k, v := range d.Params {
			fmt.Fprintf(w, "prop:      %s=%s\n", k, v)
		}
	}
	if d.Reason != router.ReasonNone {
		fmt.Fprintf(w, "reason:    %s\n", d.Reason)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
