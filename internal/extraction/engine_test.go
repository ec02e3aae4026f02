package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 11, 30, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Config{
		Now:      func() time.Time { return fixedNow },
		Location: time.UTC,
	})
	require.NoError(t, err)
	return e
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		mutate  func(*Rules)
		wantErr bool
	}{
		{
			name:   "default rules",
			mutate: func(*Rules) {},
		},
		{
			name: "invalid amount rule",
			mutate: func(r *Rules) {
				r.AmountRules = append(r.AmountRules, Rule{Name: "broken", Regex: `[invalid regex`})
			},
			wantErr: true,
			errMsg:  "failed to compile rule broken",
		},
		{
			name: "invalid balance rule",
			mutate: func(r *Rules) {
				r.BalanceRule = Rule{Name: "balance", Regex: `(unclosed`}
			},
			wantErr: true,
			errMsg:  "failed to compile rule balance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			tt.mutate(&rules)

			e, err := New(Config{Rules: &rules})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, e)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, e)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	e, err := NewDefault()
	require.NoError(t, err)

	assert.InDelta(t, DefaultMinConfidence, e.MinConfidence(), 1e-9)
	assert.Equal(t, DefaultWorkers, e.workers)
	assert.Equal(t, time.UTC, e.location)
	assert.Len(t, e.categories, 10)
}

func TestNew_MinConfidenceFloor(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"unset", 0, DefaultMinConfidence},
		{"lowered", 0.1, DefaultMinConfidence},
		{"raised", 0.6, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(Config{MinConfidence: tt.in})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, e.MinConfidence(), 1e-9)
		})
	}
}

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightAmount + WeightDate + WeightDirection + WeightMerchant + WeightCategory
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestSegment(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "no separators",
			input: "Rs 500 debited from your account",
			want:  []string{"Rs 500 debited from your account"},
		},
		{
			name:  "blank lines",
			input: "first message\n\n  second message  \n \nthird",
			want:  []string{"first message", "second message", "third"},
		},
		{
			name:  "dash and equals rules",
			input: "one\n---\ntwo\n=====\nthree",
			want:  []string{"one", "two", "three"},
		},
		{
			name:  "email headers",
			input: "Subject: Alert From: bank body",
			want:  []string{"Alert", "bank body"},
		},
		{
			name:  "headers are case insensitive",
			input: "subject: first\nfrom: second",
			want:  []string{"first", "second"},
		},
		{
			name:  "whitespace only",
			input: "  \n\n \t ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Segment(tt.input))
		})
	}
}

func TestSegments_StopsEarly(t *testing.T) {
	e := newTestEngine(t)

	var got []string
	for msg := range e.Segments("a1\n\na2\n\na3") {
		got = append(got, msg)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a1", "a2"}, got)
}

func TestSegments_Restartable(t *testing.T) {
	e := newTestEngine(t)
	seq := e.Segments("x\n\ny")

	var first, second []string
	for msg := range seq {
		first = append(first, msg)
	}
	for msg := range seq {
		second = append(second, msg)
	}
	assert.Equal(t, first, second)
}
