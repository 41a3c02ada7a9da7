package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/markov/internal/engine"
	"github.com/roach88/markov/internal/rule"
	"github.com/roach88/markov/internal/ruleset"
)

func runFixture(t *testing.T) *engine.Runner {
	t.Helper()
	rs := ruleset.Of(
		rule.New("a", "b", false),
		rule.New("b", "c", true),
	)
	r, err := engine.New(rs, "a",
		engine.WithTokenGenerator(engine.NewFixedGenerator("fixed-token")))
	require.NoError(t, err)
	r.Run()
	return r
}

func TestNewSnapshot(t *testing.T) {
	r := runFixture(t)
	s := NewSnapshot("demo", r)

	assert.Equal(t, "demo", s.Algorithm)
	assert.Equal(t, "fixed-token", s.RunToken)
	assert.True(t, s.Halted)

	// a -> b, then b ->. c: initial entry plus two applied steps.
	require.Len(t, s.Steps, 3)
	assert.Equal(t, StepTrace{Seq: 0, Context: "a"}, s.Steps[0])
	assert.Equal(t, StepTrace{Seq: 1, Context: "b", Rule: "a -> b"}, s.Steps[1])
	assert.Equal(t, StepTrace{Seq: 2, Context: "c", Rule: "b ->. c", Terminating: true}, s.Steps[2])
}

func TestSnapshot_MarshalCanonical(t *testing.T) {
	r := runFixture(t)
	s := NewSnapshot("demo", r)

	got, err := s.MarshalCanonical()
	require.NoError(t, err)

	want := `{"algorithm":"demo","halted":true,"run_token":"fixed-token",` +
		`"steps":[{"context":"a","seq":0},` +
		`{"context":"b","rule":"a -> b","seq":1},` +
		`{"context":"c","rule":"b ->. c","seq":2,"terminating":true}]}`
	assert.Equal(t, want, string(got))
}
