package deploytest

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"speedrun-go/internal/deploy"
)

func TestDeployIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := New(DefaultDeployer, map[string]Factory{"Token": NewERC20(big.NewInt(1000))})

	first, err := env.Deploy(ctx, "Token", deploy.DeployOptions{From: DefaultDeployer})
	if err != nil {
		t.Fatalf("Deploy returned error: %v", err)
	}
	second, err := env.Deploy(ctx, "Token", deploy.DeployOptions{From: DefaultDeployer})
	if err != nil {
		t.Fatalf("second Deploy returned error: %v", err)
	}
	if !second.Reused || second.Address != first.Address {
		t.Fatalf("expected reuse of %s, got %+v", first.Address, second)
	}
	if len(env.Sent) != 1 {
		t.Fatalf("expected a single deployment tx, got %d", len(env.Sent))
	}
}

func TestUnknownSignerAndMissingContract(t *testing.T) {
	ctx := context.Background()
	env := New(DefaultDeployer, map[string]Factory{"Token": NewERC20(big.NewInt(1))})
	stranger := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	if _, err := env.Deploy(ctx, "Token", deploy.DeployOptions{From: stranger}); !errors.Is(err, deploy.ErrUnknownSigner) {
		t.Fatalf("expected ErrUnknownSigner, got %v", err)
	}
	if _, err := env.GetContract(ctx, "Token", DefaultDeployer); !errors.Is(err, deploy.ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
	if _, err := env.Deploy(ctx, "Nope", deploy.DeployOptions{From: DefaultDeployer}); err == nil {
		t.Fatalf("expected error for missing artifact")
	}
}

func TestTransactRevertsLeaveStateUntouched(t *testing.T) {
	ctx := context.Background()
	env := New(DefaultDeployer, map[string]Factory{"Token": NewERC20(big.NewInt(10))})
	if _, err := env.Deploy(ctx, "Token", deploy.DeployOptions{From: DefaultDeployer}); err != nil {
		t.Fatalf("Deploy returned error: %v", err)
	}
	token, err := env.GetContract(ctx, "Token", DefaultDeployer)
	if err != nil {
		t.Fatalf("GetContract returned error: %v", err)
	}
	to := common.HexToAddress("0x01")

	_, err = token.Transact(ctx, deploy.TxOptions{}, "transfer", to, big.NewInt(11))
	if !errors.Is(err, deploy.ErrReverted) {
		t.Fatalf("expected ErrReverted, got %v", err)
	}
	_, err = token.Transact(ctx, deploy.TxOptions{Value: big.NewInt(1)}, "transfer", to, big.NewInt(1))
	if !errors.Is(err, deploy.ErrReverted) {
		t.Fatalf("expected non-payable revert, got %v", err)
	}
	if env.Balance(token.Address()).Sign() != 0 {
		t.Fatalf("expected ether refunded on revert")
	}

	receipt, err := token.Transact(ctx, deploy.TxOptions{}, "transfer", to, big.NewInt(4))
	if err != nil {
		t.Fatalf("transfer returned error: %v", err)
	}
	if receipt.GasUsed != GasPerTx || receipt.BlockNumber.Uint64() != 2 {
		t.Fatalf("unexpected receipt: gas %d block %s", receipt.GasUsed, receipt.BlockNumber)
	}
	out, err := token.Call(ctx, "balanceOf", to)
	if err != nil {
		t.Fatalf("balanceOf returned error: %v", err)
	}
	if out[0].(*big.Int).Int64() != 4 {
		t.Fatalf("expected balance 4, got %v", out[0])
	}
}

func TestGasLimitCeiling(t *testing.T) {
	ctx := context.Background()
	env := New(DefaultDeployer, map[string]Factory{"Token": NewERC20(big.NewInt(10))})
	if _, err := env.Deploy(ctx, "Token", deploy.DeployOptions{From: DefaultDeployer}); err != nil {
		t.Fatalf("Deploy returned error: %v", err)
	}
	token, _ := env.GetContract(ctx, "Token", DefaultDeployer)
	_, err := token.Transact(ctx, deploy.TxOptions{GasLimit: GasPerTx - 1}, "approve", common.HexToAddress("0x02"), big.NewInt(1))
	if !errors.Is(err, deploy.ErrReverted) {
		t.Fatalf("expected out of gas revert, got %v", err)
	}
}
