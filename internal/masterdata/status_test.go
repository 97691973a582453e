package masterdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		flag *bool
		want Status
	}{
		{name: "unset flag is active", flag: nil, want: StatusActive},
		{name: "false flag is active", flag: boolPtr(false), want: StatusActive},
		{name: "true flag is deleted", flag: boolPtr(true), want: StatusDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.flag))
		})
	}
}

func TestActiveOnly_KeepsOrder(t *testing.T) {
	type row struct {
		id      string
		deleted *bool
	}
	rows := []row{
		{id: "a", deleted: nil},
		{id: "b", deleted: boolPtr(true)},
		{id: "c", deleted: boolPtr(false)},
		{id: "d", deleted: boolPtr(true)},
		{id: "e", deleted: nil},
	}

	got := ActiveOnly(rows, func(r row) *bool { return r.deleted })

	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.id)
	}
	assert.Equal(t, []string{"a", "c", "e"}, ids)
}

func TestActiveOnly_Empty(t *testing.T) {
	got := ActiveOnly[*bool](nil, func(b *bool) *bool { return b })
	assert.Empty(t, got)
}

func TestPredicate_Valid(t *testing.T) {
	assert.True(t, ByIDAndLocale.Valid())
	assert.True(t, ByLocale.Valid())
	assert.True(t, All.Valid())
	assert.False(t, Predicate(0).Valid())
	assert.False(t, Predicate(42).Valid())
	assert.Equal(t, "by_locale", ByLocale.String())
	assert.Equal(t, "predicate(42)", Predicate(42).String())
}
