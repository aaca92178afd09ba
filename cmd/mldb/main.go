// Command mldb serves datasets and SQL queries over HTTP and runs the sample
// suite against a server.
//
//	mldb serve --address 127.0.0.1:8080 --data-dir ./data
//	mldb sample --url http://127.0.0.1:8080
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	mldb "github.com/src-d/go-mldb"
)

const envPrefix = "MLDB"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "mldb",
		Short:         "Dataset store with a SQL query engine over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v, cmd.Flags()); err != nil {
				return err
			}
			return mldb.ConfigureLogging(v.GetString("log_level"), v.GetString("log_format"))
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "configuration file (yaml, json or toml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")

	root.AddCommand(newServeCmd(v), newSampleCmd(v))
	return root
}

// loadConfig binds the flags to viper keys, where dashes become underscores,
// and reads MLDB_* environment variables and the configuration file.
// Flags set explicitly win over the environment, which wins over the file.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err == nil {
			err = v.BindPFlag(strings.Replace(f.Name, "-", "_", -1), f)
		}
	})
	if err != nil {
		return err
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}

	return nil
}
