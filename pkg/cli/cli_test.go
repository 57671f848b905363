package cli_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/memora-app/memora/pkg/cli"
)

func TestRun_MigrateCommand_MemoryBackends(t *testing.T) {
	// Memory backends have no schema; migrate is a no-op and must succeed
	err := cli.Run(context.Background(), []string{
		"memora", "migrate",
		"--vector-backend", "memory",
		"--graph-backend", "memory",
	}, "test")
	gt.NoError(t, err)
}

func TestRun_UnknownFlag(t *testing.T) {
	err := cli.Run(context.Background(), []string{"memora", "migrate", "--no-such-flag"}, "test")
	gt.Error(t, err)
}
