package core

import (
	"context"
	"testing"
	"time"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	"github.com/stretchr/testify/require"
)

type testSupervisorSetup struct {
	*testRelaySetup
	sv   *Supervisor
	path *Path
}

func newTestSupervisor(t *testing.T) *testSupervisorSetup {
	t.Helper()
	rs := &testRelaySetup{
		chainA:  newTestChain("chainA", "channel-0", "07-tendermint-0", "UNORDERED"),
		chainB:  newTestChain("chainB", "channel-1", "07-tendermint-1", "UNORDERED"),
		proverA: &testProver{finalizedHeight: clienttypes.NewHeight(0, 100)},
		proverB: &testProver{finalizedHeight: clienttypes.NewHeight(0, 100)},
	}
	s := &testSupervisorSetup{
		testRelaySetup: rs,
		sv: NewSupervisor(SupervisorConfig{
			ReconnectInterval: 10 * time.Millisecond,
		}),
		path: &Path{
			Src:    rs.chainA.pathEnd,
			Dst:    rs.chainB.pathEnd,
			Config: &LinkConfig{MaxBatchSize: 1},
		},
	}
	require.NoError(t, s.sv.AddPath(
		NewProvableChain(rs.chainA, rs.proverA),
		NewProvableChain(rs.chainB, rs.proverB),
		s.path,
	))
	return s
}

func (s *testSupervisorSetup) waitSubscribed(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.sv.Status("chainA") == ChainStatusSubscribed &&
			s.sv.Status("chainB") == ChainStatusSubscribed
	}, 5*time.Second, 5*time.Millisecond)
}

func TestSupervisorRoutesEventsToLinks(t *testing.T) {
	s := newTestSupervisor(t)
	require.NoError(t, s.sv.Start(context.Background()))
	defer s.sv.Shutdown()

	s.waitSubscribed(t)

	s.chainA.publish(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(1, clienttypes.NewHeight(0, 1000))},
		},
	})

	require.Eventually(t, func() bool {
		kinds := s.chainB.sentKinds()
		return len(kinds) == 1 && kinds[0][len(kinds[0])-1] == "MsgRecvPacket(1)"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSupervisorResubscribesAfterConnectionLoss(t *testing.T) {
	s := newTestSupervisor(t)
	require.NoError(t, s.sv.Start(context.Background()))
	defer s.sv.Shutdown()

	s.waitSubscribed(t)

	s.chainA.closeSubscription(ErrConnectionLost)
	require.Eventually(t, func() bool {
		return s.sv.Status("chainA") == ChainStatusSubscribed
	}, 5*time.Second, 5*time.Millisecond)

	// the restored subscription keeps feeding the link
	s.chainA.publish(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 20),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(2, clienttypes.NewHeight(0, 1000))},
		},
	})
	require.Eventually(t, func() bool {
		return len(s.chainB.sentKinds()) == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSupervisorLossOnOneChainLeavesOthersSubscribed(t *testing.T) {
	s := newTestSupervisor(t)
	require.NoError(t, s.sv.Start(context.Background()))
	defer s.sv.Shutdown()

	s.waitSubscribed(t)

	s.chainA.closeSubscription(ErrConnectionLost)
	require.Equal(t, ChainStatusSubscribed, s.sv.Status("chainB"))
}

func TestSupervisorRejectsPathAfterStart(t *testing.T) {
	s := newTestSupervisor(t)
	require.NoError(t, s.sv.Start(context.Background()))
	defer s.sv.Shutdown()

	err := s.sv.AddPath(
		NewProvableChain(s.chainA, s.proverA),
		NewProvableChain(s.chainB, s.proverB),
		s.path,
	)
	require.Error(t, err)

	require.Error(t, s.sv.Start(context.Background()))
}

func TestSupervisorShutdownStopsCleanly(t *testing.T) {
	s := newTestSupervisor(t)
	require.NoError(t, s.sv.Start(context.Background()))
	s.waitSubscribed(t)

	done := make(chan struct{})
	go func() {
		s.sv.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not drain")
	}
	require.Equal(t, ChainStatusDisconnected, s.sv.Status("chainA"))
}
