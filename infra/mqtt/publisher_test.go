package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremon "github.com/kilianp07/teambalance/core/monitoring"
	coremqtt "github.com/kilianp07/teambalance/core/mqtt"
)

type recordMonitor struct {
	err  error
	tags map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.err = err
	r.tags = tags
}
func (r *recordMonitor) CapturePanic(any)    {}
func (r *recordMonitor) Flush(time.Duration) {}

func lineup() coremqtt.Lineup {
	return coremqtt.Lineup{
		Strategy: "exact",
		Status:   "optimal",
		Teams: []coremqtt.LineupTeam{
			{Index: 0, Players: []string{"alice", "dave"}, Total: 50},
			{Index: 1, Players: []string{"bob", "carol"}, Total: 49},
		},
	}
}

func TestPublishLineup(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	cli, err := NewLineupPublisher(Config{Broker: "tcp://localhost:1883", QoS: 1, Retain: true})
	require.NoError(t, err)

	id, err := cli.PublishLineup(context.Background(), lineup())
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Len(t, mc.published, 1)

	msg := mc.published[0]
	assert.Equal(t, DefaultTopic, msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retained)

	var got coremqtt.Lineup
	require.NoError(t, json.Unmarshal(msg.payload, &got))
	assert.Equal(t, id, got.ID)
	assert.False(t, got.GeneratedAt.IsZero())
	assert.Equal(t, []string{"bob", "carol"}, got.Teams[1].Players)
}

func TestPublishLineupKeepsID(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	cli, err := NewLineupPublisher(Config{Broker: "tcp://localhost:1883", Topic: "league/tuesday"})
	require.NoError(t, err)
	l := lineup()
	l.ID = "game-7"
	id, err := cli.PublishLineup(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, "game-7", id)
	assert.Equal(t, "league/tuesday", mc.published[0].topic)
}

func TestRetryLogic(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail"), nil}}
	useMock(t, mc)
	cli, err := NewLineupPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 1, BackoffMS: 1})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if _, err := cli.PublishLineup(context.Background(), lineup()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(mc.published) != 2 {
		t.Fatalf("expected retries")
	}
}

func TestPublishErrorCaptured(t *testing.T) {
	fail := fmt.Errorf("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail}}
	useMock(t, mc)
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Init(coremon.NopMonitor{})

	cli, err := NewLineupPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 1, BackoffMS: 1})
	require.NoError(t, err)
	l := lineup()
	l.ID = "g1"
	_, err = cli.PublishLineup(context.Background(), l)
	require.Error(t, err)
	assert.True(t, errors.Is(err, coremqtt.ErrPublishFailed))
	assert.Len(t, mc.published, 2)
	if mon.err == nil {
		t.Fatalf("error not captured")
	}
	if mon.tags["lineup_id"] != "g1" || mon.tags["module"] != "mqtt" {
		t.Fatalf("tags not set")
	}
}

func TestPublishStopsOnCancel(t *testing.T) {
	fail := fmt.Errorf("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail, fail, fail}}
	useMock(t, mc)
	cli, err := NewLineupPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 3, BackoffMS: 1000})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = cli.PublishLineup(ctx, lineup())
	require.ErrorIs(t, err, coremqtt.ErrPublishFailed)
	assert.Len(t, mc.published, 1)
}
