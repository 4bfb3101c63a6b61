package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiCallback_FansOut(t *testing.T) {
	var first, second []Stage
	cb := MultiCallback(
		func(e Event) { first = append(first, e.Stage) },
		nil,
		func(e Event) { second = append(second, e.Stage) },
	)
	require.NotNil(t, cb)

	cb(Event{Stage: StageLookupStarted})
	cb(Event{Stage: StageLookupCompleted})

	assert.Equal(t, []Stage{StageLookupStarted, StageLookupCompleted}, first)
	assert.Equal(t, first, second)
}

func TestMultiCallback_AllNil(t *testing.T) {
	assert.Nil(t, MultiCallback(nil, nil))
	assert.Nil(t, MultiCallback())
}
