package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	assert.True(t, Truthy(true))
	assert.True(t, Truthy("true"))
	assert.True(t, Truthy("on"))
	assert.True(t, Truthy("1"))
	assert.True(t, Truthy("Yes"))
	assert.True(t, Truthy(float64(1)))

	assert.False(t, Truthy(false))
	assert.False(t, Truthy("false"))
	assert.False(t, Truthy("off"))
	assert.False(t, Truthy("0"))
	assert.False(t, Truthy(float64(0)))
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy([]string{"true"}))
}

func TestFlexBoolUnmarshal(t *testing.T) {
	var payload struct {
		A FlexBool `json:"a"`
		B FlexBool `json:"b"`
		C FlexBool `json:"c"`
		D FlexBool `json:"d"`
	}
	err := json.Unmarshal([]byte(`{"a":true,"b":"on","c":1,"d":"nope"}`), &payload)
	assert.NoError(t, err)
	assert.True(t, bool(payload.A))
	assert.True(t, bool(payload.B))
	assert.True(t, bool(payload.C))
	assert.False(t, bool(payload.D))
}

func TestStringListUnmarshal(t *testing.T) {
	t.Run("TestArrayOfStrings", func(t *testing.T) {
		var l StringList
		assert.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &l))
		assert.Equal(t, StringList{"a", "b"}, l)
	})

	t.Run("TestNonListBecomesEmpty", func(t *testing.T) {
		var l StringList
		assert.NoError(t, json.Unmarshal([]byte(`"not a list"`), &l))
		assert.Empty(t, l)

		assert.NoError(t, json.Unmarshal([]byte(`{"a":1}`), &l))
		assert.Empty(t, l)
	})

	t.Run("TestMixedValuesAreStringified", func(t *testing.T) {
		var l StringList
		assert.NoError(t, json.Unmarshal([]byte(`["a",1,true]`), &l))
		assert.Equal(t, StringList{"a", "1", "true"}, l)
	})
}

func TestFlagProbing(t *testing.T) {
	t.Run("TestRequiredAcceptsBothKeySpellings", func(t *testing.T) {
		var q QuestionInput
		assert.NoError(t, json.Unmarshal([]byte(`{"required":true}`), &q))
		assert.True(t, q.RequiredFlag())

		q = QuestionInput{}
		assert.NoError(t, json.Unmarshal([]byte(`{"is_required":"on"}`), &q))
		assert.True(t, q.RequiredFlag())

		q = QuestionInput{}
		assert.NoError(t, json.Unmarshal([]byte(`{}`), &q))
		assert.False(t, q.RequiredFlag())
	})

	t.Run("TestMetadataDefaultsToFalse", func(t *testing.T) {
		var q QuestionInput
		assert.NoError(t, json.Unmarshal([]byte(`{"metadata":1}`), &q))
		assert.True(t, q.MetadataFlag())

		q = QuestionInput{}
		assert.False(t, q.MetadataFlag())
	})

	t.Run("TestPrintDefaultsToTrue", func(t *testing.T) {
		var q QuestionInput
		assert.NoError(t, json.Unmarshal([]byte(`{}`), &q))
		assert.True(t, q.PrintFlag())

		q = QuestionInput{}
		assert.NoError(t, json.Unmarshal([]byte(`{"is_print":false}`), &q))
		assert.False(t, q.PrintFlag())

		// is_print wins over the legacy key when both are present
		q = QuestionInput{}
		assert.NoError(t, json.Unmarshal([]byte(`{"print":true,"is_print":false}`), &q))
		assert.False(t, q.PrintFlag())
	})
}

func TestNormalizeQuestion(t *testing.T) {
	t.Run("TestMissingIDGetsGenerated", func(t *testing.T) {
		q := NormalizeQuestion(QuestionInput{Label: "x"}, "s1", 0)
		assert.NotEmpty(t, q.ID)
		assert.Equal(t, "s1", q.SectionID)
	})

	t.Run("TestUnknownTypeFallsBackToText", func(t *testing.T) {
		q := NormalizeQuestion(QuestionInput{Type: "signature"}, "s1", 0)
		assert.Equal(t, FieldText, q.Type)
	})

	t.Run("TestWidthDefaultsToHalf", func(t *testing.T) {
		q := NormalizeQuestion(QuestionInput{}, "s1", 0)
		assert.Equal(t, "half", q.Width)
	})

	t.Run("TestListsAreEncoded", func(t *testing.T) {
		q := NormalizeQuestion(QuestionInput{
			Options: StringList{"A", "B"},
			Types:   StringList{VariantCluster},
		}, "s1", 3)
		assert.Equal(t, 3, q.Order)
		assert.Equal(t, `["A","B"]`, q.OptionsJSON)
		assert.Equal(t, `["cluster"]`, q.VariantsJSON)
	})
}

func TestNormalizeSection(t *testing.T) {
	s := NormalizeSection(SectionInput{}, CategoryMain, 2)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Untitled", s.Title)
	assert.Equal(t, CategoryMain, s.Category)
	assert.Equal(t, 2, s.Order)
	assert.True(t, s.IsExpanded)

	collapsed := FlexBool(false)
	s = NormalizeSection(SectionInput{ID: " s1 ", Title: "General", IsExpanded: &collapsed}, CategoryMain, 0)
	assert.Equal(t, "s1", s.ID)
	assert.False(t, s.IsExpanded)
}

func TestNormalizeTree(t *testing.T) {
	inputs := []SectionInput{
		{ID: "s1", Title: "General", Content: []QuestionInput{
			{ID: "q1", Label: "Site address"},
			{Label: "Inspector"},
		}},
		{Title: "Findings"},
	}

	tree := NormalizeTree(CategoryMain, inputs)
	assert.Len(t, tree, 2)

	// Order is assigned from array position, 0-based and contiguous.
	assert.Equal(t, 0, tree[0].Order)
	assert.Equal(t, 1, tree[1].Order)
	assert.Equal(t, 0, tree[0].Questions[0].Order)
	assert.Equal(t, 1, tree[0].Questions[1].Order)

	// Questions point at their (possibly generated) section id.
	assert.Equal(t, "s1", tree[0].Questions[0].SectionID)
	assert.Equal(t, "s1", tree[0].Questions[1].SectionID)
	assert.NotEmpty(t, tree[0].Questions[1].ID)
	assert.Equal(t, CategoryMain, tree[1].Category)
}
