package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "力学", []string{"力学"}},
		{"ascii commas", "力学, 运动学 ,牛顿定律", []string{"力学", "运动学", "牛顿定律"}},
		{"full-width comma", "力学，电磁学", []string{"力学", "电磁学"}},
		{"drops empties and duplicates", ",力学,,力学, ", []string{"力学"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.in))
		})
	}
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "力学,运动学", JoinTags([]string{" 力学", "运动学", ""}))
	assert.Equal(t, "", JoinTags(nil))
}

func TestMerge_KeepsOmittedFields(t *testing.T) {
	base := Problem{ID: "1", Content: "old", Answer: "42", Tags: []string{"力学"}}
	content := "new"

	got := Merge(base, UpdatePayload{Content: &content})

	assert.Equal(t, "new", got.Content)
	assert.Equal(t, "42", got.Answer)
	assert.Equal(t, []string{"力学"}, got.Tags)
	assert.Equal(t, "old", base.Content, "input must not be modified")
}

func TestMerge_ReplacesTags(t *testing.T) {
	base := Problem{ID: "1", Tags: []string{"力学"}}
	tags := []string{"光学", "光学"}

	got := Merge(base, UpdatePayload{Tags: &tags})
	assert.Equal(t, []string{"光学"}, got.Tags)

	got = Merge(Problem{ID: "2"}, UpdatePayload{})
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
}

func TestUpdatePayload_IsEmpty(t *testing.T) {
	assert.True(t, UpdatePayload{}.IsEmpty())
	s := ""
	assert.False(t, UpdatePayload{Answer: &s}.IsEmpty())
}

func TestClone_IsDeep(t *testing.T) {
	p := Problem{ID: "1", Tags: []string{"a"}}
	c := p.Clone()
	c.Tags[0] = "b"
	assert.Equal(t, "a", p.Tags[0])
	assert.True(t, p.HasTag("a"))
	assert.False(t, p.HasTag("b"))
}
