package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSkipsOwnOrigin(t *testing.T) {
	l := NewLocal()
	defer l.Close()
	var got []Change
	require.NoError(t, l.Subscribe(context.Background(), func(c Change) {
		got = append(got, c)
	}))

	require.NoError(t, l.Publish(context.Background(), Change{Reason: "group_created", GroupId: 3}))
	assert.Empty(t, got, "own changes are not echoed")

	require.NoError(t, l.Publish(context.Background(), Change{Origin: NewOrigin(), Reason: "group_created", GroupId: 4}))
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].GroupId)
	assert.False(t, got[0].At.IsZero())
}

func TestChangeEncoding(t *testing.T) {
	c := Change{Origin: "a", Reason: "group_created", GroupId: 9, At: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	data, err := encode(c)
	require.NoError(t, err)
	back, err := decode(data)
	require.NoError(t, err)
	assert.True(t, c.At.Equal(back.At))
	assert.Equal(t, c.GroupId, back.GroupId)
	assert.Equal(t, c.Origin, back.Origin)

	_, err = decode([]byte("{"))
	assert.Error(t, err)
}

func TestOriginsAreUnique(t *testing.T) {
	assert.NotEqual(t, NewLocal().Origin(), NewLocal().Origin())
}
