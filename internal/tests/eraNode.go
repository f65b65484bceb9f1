package tests

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/Layr-Labs/chain-indexer/pkg/clients/ethereum"
)

// StartEraNode runs an in-memory zkSync node (anvil-zksync or era_test_node) on port.
func StartEraNode(ctx context.Context, binary string, port string) (*exec.Cmd, error) {
	args := []string{"--port", port, "run"}
	fmt.Printf("Starting %s with args: %v\n", binary, args)
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stderr = os.Stderr

	if os.Getenv("JOIN_NODE_OUTPUT") == "true" {
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", binary, err)
	}
	return cmd, nil
}

// WaitForNode polls the latest block until the node answers or ctx is done.
func WaitForNode(ctx context.Context, t *testing.T, client ethereum.Client) error {
	for i := 1; ; i++ {
		block, err := client.GetLatestBlock(ctx)
		if err == nil {
			t.Logf("Node is up and running, latest block: %v", block)
			return nil
		}
		t.Logf("Node not ready yet, retrying... %d (%v)", i, err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("node did not come up: %w", ctx.Err())
		case <-time.After(time.Second * time.Duration(min(i, 5))):
		}
	}
}

// NodeReachable makes a single attempt, for tests that skip when no node is running.
func NodeReachable(ctx context.Context, client ethereum.Client) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := client.GetLatestBlock(ctx)
	return err == nil
}

func KillNode(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return fmt.Errorf("node command is not running")
	}

	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("failed to kill node process: %w", err)
	}
	_ = cmd.Wait()

	fmt.Println("Node process killed successfully")
	return nil
}
