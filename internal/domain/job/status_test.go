package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	forward := [][2]Status{
		{StatusOpen, StatusAssigned},
		{StatusAssigned, StatusInProgress},
		{StatusInProgress, StatusCompleted},
		{StatusInProgress, StatusVerified},
		{StatusCompleted, StatusVerified},
		{StatusVerified, StatusPaid},
	}
	for _, tr := range forward {
		assert.True(t, tr[0].CanTransitionTo(tr[1]), "%s -> %s", tr[0], tr[1])
	}

	backward := [][2]Status{
		{StatusAssigned, StatusOpen},
		{StatusPaid, StatusOpen},
		{StatusVerified, StatusInProgress},
		{StatusOpen, StatusPaid},
		{StatusOpen, StatusOpen},
	}
	for _, tr := range backward {
		assert.False(t, tr[0].CanTransitionTo(tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestStatus_Predicates(t *testing.T) {
	assert.True(t, StatusCompleted.Finished())
	assert.True(t, StatusPaid.Finished())
	assert.False(t, StatusInProgress.Finished())

	assert.True(t, StatusAssigned.Active())
	assert.False(t, StatusOpen.Active())

	assert.False(t, Status("archived").Valid())
	assert.True(t, CategoryAwareness.Valid())
	assert.False(t, Category("mining").Valid())
}
