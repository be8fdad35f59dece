package escrow

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func notification(name string, fields ...any) state.NotificationEvent {
	items := make([]stackitem.Item, len(fields))
	for i := range fields {
		items[i] = stackitem.Make(fields[i])
	}
	return state.NotificationEvent{
		ScriptHash: util.Uint160{1},
		Name:       name,
		Item:       stackitem.NewArray(items),
	}
}

func appLog(events ...state.NotificationEvent) *result.ApplicationLog {
	return &result.ApplicationLog{
		Executions: []state.Execution{{Events: events}},
	}
}

func TestEventsFromApplicationLog(t *testing.T) {
	reviewer := util.Uint160{2, 3}

	log := appLog(
		notification("ReviewStatusUpdated", 5, 1),
		notification("Transfer", util.Uint160{1}.BytesBE(), reviewer.BytesBE(), 100),
		notification("BountyClaimed", 5, reviewer.BytesBE(), 100),
		notification("BountyCompleted", 7, 0),
	)

	claimed, err := BountyClaimedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*BountyClaimedEvent{{
		ReviewID: big.NewInt(5),
		Reviewer: reviewer,
		Amount:   big.NewInt(100),
	}}, claimed)

	updated, err := ReviewStatusUpdatedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	require.EqualValues(t, 1, updated[0].Status.Int64())

	completed, err := BountyCompletedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.EqualValues(t, 7, completed[0].PaperID.Int64())
	require.Zero(t, completed[0].Returned.Sign())

	created, err := BountyCreatedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Empty(t, created)

	_, err = BountyClaimedEventsFromApplicationLog(nil)
	require.Error(t, err)
}

func TestInvalidEvents(t *testing.T) {
	_, err := BountyCreatedEventsFromApplicationLog(appLog(notification("BountyCreated", 1, 2)))
	require.ErrorContains(t, err, "wrong number of structure elements")

	_, err = ReviewSubmittedEventsFromApplicationLog(appLog(notification("ReviewSubmitted", 1, 2, []byte{1, 2})))
	require.ErrorContains(t, err, "field Reviewer")

	var e CoreAddressUpdatedEvent
	require.Error(t, e.FromStackItem(nil))
}

func TestBountyFromStackItem(t *testing.T) {
	creator := util.Uint160{9}

	var b Bounty
	require.NoError(t, b.FromStackItem(stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(1),
		stackitem.Make(creator.BytesBE()),
		stackitem.Make(1000),
		stackitem.Make(123456),
		stackitem.Make(3),
		stackitem.Make(1),
		stackitem.Make(true),
	})))
	require.Equal(t, Bounty{
		PaperID:         big.NewInt(1),
		Creator:         creator,
		Amount:          big.NewInt(1000),
		Deadline:        big.NewInt(123456),
		MaxReviewers:    big.NewInt(3),
		AcceptedReviews: big.NewInt(1),
		Active:          true,
	}, b)

	require.Error(t, b.FromStackItem(stackitem.Make(1)))
}
