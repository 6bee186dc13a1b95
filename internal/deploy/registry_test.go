package deploy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"speedrun-go/internal/deploy"
	"speedrun-go/internal/deploy/deploytest"
)

func recordingRoutine(name string, order int, ran *[]string, tags ...string) deploy.Routine {
	return deploy.Routine{
		Name:  name,
		Order: order,
		Tags:  tags,
		Run: func(ctx context.Context, env deploy.Env, log zerolog.Logger) error {
			*ran = append(*ran, name)
			return nil
		},
	}
}

func TestRegisterValidation(t *testing.T) {
	reg := deploy.NewRegistry(zerolog.Nop())
	var ran []string

	require.NoError(t, reg.Register(recordingRoutine("dex", 0, &ran, "DEX")))
	require.Error(t, reg.Register(recordingRoutine("dex", 1, &ran, "DEX")), "duplicate name")
	require.Error(t, reg.Register(recordingRoutine("", 0, &ran, "X")), "empty name")
	require.Error(t, reg.Register(recordingRoutine("untagged", 0, &ran)), "no tags")
	require.Error(t, reg.Register(deploy.Routine{Name: "nil", Tags: []string{"X"}}), "nil run")
}

func TestSelectByTags(t *testing.T) {
	reg := deploy.NewRegistry(zerolog.Nop())
	var ran []string
	require.NoError(t, reg.Register(recordingRoutine("vendor", 1, &ran, "Vendor")))
	require.NoError(t, reg.Register(recordingRoutine("your-token", 0, &ran, "YourToken")))
	require.NoError(t, reg.Register(recordingRoutine("dex", 0, &ran, "Balloons", "DEX")))

	all, err := reg.Select(nil)
	require.NoError(t, err)
	require.Equal(t, []string{"dex", "your-token", "vendor"}, names(all))

	picked, err := reg.Select([]string{"vendor", "YourToken"})
	require.NoError(t, err)
	require.Equal(t, []string{"your-token", "vendor"}, names(picked))

	picked, err = reg.Select([]string{"balloons", "DEX"})
	require.NoError(t, err)
	require.Equal(t, []string{"dex"}, names(picked))

	_, err = reg.Select([]string{"Staker"})
	require.Error(t, err)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	reg := deploy.NewRegistry(zerolog.Nop())
	var ran []string
	boom := errors.New("boom")
	require.NoError(t, reg.Register(recordingRoutine("a", 0, &ran, "all")))
	require.NoError(t, reg.Register(deploy.Routine{
		Name:  "b",
		Order: 1,
		Tags:  []string{"all"},
		Run: func(ctx context.Context, env deploy.Env, log zerolog.Logger) error {
			ran = append(ran, "b")
			return boom
		},
	}))
	require.NoError(t, reg.Register(recordingRoutine("c", 2, &ran, "all")))

	env := deploytest.New(deploytest.DefaultDeployer, nil)
	err := reg.Run(context.Background(), env, []string{"all"})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "routine b")
	require.Equal(t, []string{"a", "b"}, ran)
}

func TestRunUnknownTag(t *testing.T) {
	reg := deploy.NewRegistry(zerolog.Nop())
	env := deploytest.New(deploytest.DefaultDeployer, nil)
	require.Error(t, reg.Run(context.Background(), env, []string{"missing"}))
}

func names(routines []deploy.Routine) []string {
	out := make([]string, len(routines))
	for i, r := range routines {
		out[i] = r.Name
	}
	return out
}
