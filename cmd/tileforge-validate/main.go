// Command tileforge-validate checks a server configuration file before a
// long-running process loads it, reporting the same errors config.Load
// would raise at startup.
package main

import (
	"fmt"
	"os"

	"github.com/pspoerri/tileforge/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use:   "tileforge-validate <config-file>",
		Short: "Validate a tileforge server configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := config.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("ok: worker_pool_size=%d storage_pool_capacity=%d backends=%d\n",
				srv.WorkerPoolSize, srv.StoragePoolCapacity, len(srv.Backends))
			return nil
		},
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
