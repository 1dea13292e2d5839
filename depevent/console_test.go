package depevent

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		give Event
		want string
	}{
		{
			name: "ResolverBuilt",
			give: &ResolverBuilt{Host: "*App", Modules: []string{"Values", "Methods(*Config)"}},
			want: "[dependor] RESOLVER\t*App <= [Values, Methods(*Config)]\n",
		},
		{
			name: "LookedUp",
			give: &LookedUp{Host: "*App", Name: "logger", Module: "Values"},
			want: "[dependor] RESOLVE\t*App.logger <= Values\n",
		},
		{
			name: "LookedUp with error",
			give: &LookedUp{Host: "*App", Name: "db", Module: "Factory", Err: errors.New("dial failed")},
			want: "[dependor] ERROR\t\t*App.db from Factory: dial failed\n",
		},
		{
			name: "Missing",
			give: &Missing{Host: "*App", Name: "cache"},
			want: "[dependor] MISSING\t*App.cache\n",
		},
		{
			name: "Overridden",
			give: &Overridden{Name: "logger"},
			want: "[dependor] OVERRIDE\tlogger\n",
		},
		{
			name: "Instantiated",
			give: &Instantiated{Target: "*Service", Names: []string{"logger", "db"}, Runtime: 2 * time.Millisecond},
			want: "[dependor] INJECT\t*Service(logger, db) in 2ms\n",
		},
		{
			name: "Instantiated with error",
			give: &Instantiated{PassID: "p-1", Target: "*Service", Err: errors.New("boom")},
			want: "[dependor] ERROR\t\tFailed to instantiate *Service (pass p-1): boom\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			(&ConsoleLogger{W: &buf}).LogEvent(tt.give)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestNopLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NopLogger.LogEvent(&Missing{Name: "x"})
	})
}
