package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	errors "gopkg.in/src-d/go-errors.v1"

	mldb "github.com/src-d/go-mldb"
	"github.com/src-d/go-mldb/client"
	"github.com/src-d/go-mldb/mldbtest"
	"github.com/src-d/go-mldb/server"
)

// ErrSuiteFailed is returned when the sample suite does not succeed.
var ErrSuiteFailed = errors.NewKind("suite %s failed")

func newSampleCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Run the sample suite against a server",
		Long: "Run the sample suite against the server at --url, or against an " +
			"in-process server when --url is empty.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(cmd.Context(), cmd.OutOrStdout(), v.GetString("url"), v.GetDuration("timeout"))
		},
	}

	cmd.Flags().String("url", "", "base URL of the server")
	cmd.Flags().Duration("timeout", 30*time.Second, "maximum duration of the run")
	return cmd
}

func runSample(ctx context.Context, out io.Writer, url string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if url == "" {
		e := mldb.NewDefault()
		defer e.Close()

		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return err
		}

		srv := &http.Server{Handler: server.NewServerHandler(server.DefaultConfig(), e)}
		go func() { _ = srv.Serve(l) }()
		defer srv.Close()

		url = "http://" + l.Addr().String()
	}

	c, err := client.New(url)
	if err != nil {
		return err
	}

	report := mldbtest.Run(ctx, mldbtest.SampleSuite(c))
	fmt.Fprint(out, report.String())

	if !report.OK() {
		return ErrSuiteFailed.New(report.Suite)
	}
	return nil
}
