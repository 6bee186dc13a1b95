package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"speedrun-go/internal/deployments"
)

const testConfig = `app:
  name: speedrun-test
  log_level: error
default_network: localhost
networks:
  localhost:
    rpc_url: http://127.0.0.1:8545
    chain_id: 31337
paths:
  artifacts: %[1]s/artifacts
  deployments: %[1]s/deployments
scripts:
  dex:
    recipient: "0xdcAf63dAE8C73e64A49FcF35f4718635664b1FF4"
  vendor:
    owner: "0xA125fdcaa5aD91F7cFD0826306d49187502B7B31"
`

func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(testConfig, dir)), 0o644))
	return dir, path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestListShowsRoutinesInOrder(t *testing.T) {
	_, path := writeConfig(t)

	out, err := execute(t, "list", "--config", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "dex"))
	require.Contains(t, lines[0], "tags=Balloons,DEX")
	require.True(t, strings.HasPrefix(lines[1], "your-token"))
	require.True(t, strings.HasPrefix(lines[2], "vendor"))
	require.Contains(t, lines[2], "order=1")
}

func TestAddressesPrintsRecordedDeployments(t *testing.T) {
	dir, path := writeConfig(t)
	store, err := deployments.Open(filepath.Join(dir, "deployments"), "localhost", 31337)
	require.NoError(t, err)
	token := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	require.NoError(t, store.Put(&deployments.Record{Name: "YourToken", Address: token}))

	out, err := execute(t, "addresses", "--config", path, "--network", "localhost")
	require.NoError(t, err)

	var report addressReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, "localhost", report.Network)
	require.Equal(t, uint64(31337), report.ChainID)
	require.Equal(t, token.Hex(), report.Contracts["YourToken"])
}

func TestAddressesUnknownNetwork(t *testing.T) {
	_, path := writeConfig(t)

	_, err := execute(t, "addresses", "--config", path, "--network", "mainnet")
	require.ErrorContains(t, err, "unknown network")
}

func TestRunRejectsMissingKey(t *testing.T) {
	_, path := writeConfig(t)
	t.Setenv("DEPLOYER_PRIVATE_KEY", "")

	_, err := execute(t, "run", "--config", path)
	require.ErrorContains(t, err, "wallet")
}
