package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStage(t *testing.T) {
	for _, s := range Stages {
		assert.True(t, IsValidStage(s))
	}
	assert.False(t, IsValidStage("negotiating"))
	assert.False(t, IsValidStage(""))
}

func TestPermissiveStagePolicy(t *testing.T) {
	p := PermissiveStagePolicy()

	// Any valid stage reaches any other, including backwards moves.
	assert.True(t, p.Allows(StageBooked, StageContacted))
	assert.True(t, p.Allows(StageLost, StageCompleted))
	assert.True(t, p.Allows(StageUncontacted, StageUncontacted))

	// Invalid targets are rejected regardless of policy.
	assert.False(t, p.Allows(StageContacted, "negotiating"))
}

func TestStrictStagePolicy(t *testing.T) {
	p := StrictStagePolicy()

	assert.True(t, p.Allows(StageUncontacted, StageContacted))
	assert.True(t, p.Allows(StageContacted, StageBooked))
	assert.True(t, p.Allows(StageDeposit, StageDeposit))

	// No backwards moves.
	assert.False(t, p.Allows(StageBooked, StageContacted))
	assert.False(t, p.Allows(StageCompleted, StageTrial))

	// Lost is reachable from anywhere, and reopens only to contacted.
	for _, from := range Stages {
		assert.True(t, p.Allows(from, StageLost), "lost should be reachable from %s", from)
	}
	assert.True(t, p.Allows(StageLost, StageContacted))
	assert.False(t, p.Allows(StageLost, StageBooked))
}
