//go:build integration

package schema

// การทดสอบชุดนี้ยิงใส่ MongoDB จริง (package นี้ต่อ DB ตั้งแต่ init)
// เลยแยกไว้หลัง build tag:
//
//	MONGO_URI=mongodb://localhost:27017/?replicaSet=rs0 go test -tags integration ./src/services/schema
//
// Transaction ต้องใช้ replica set. แต่ละ test ใช้ category และ id ของตัวเอง

import (
	"context"
	"testing"

	"Backend-InspectPortal/src/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func builderTree(p string) []models.SectionInput {
	return []models.SectionInput{
		{ID: p + "-s1", Title: "General", Content: []models.QuestionInput{
			{ID: p + "-q1", Label: "Site address", Type: models.FieldText},
			{ID: p + "-q2", Label: "Inspector", Type: models.FieldText},
		}},
		{ID: p + "-s2", Title: "Findings", Content: []models.QuestionInput{
			{ID: p + "-q3", Label: "Remarks", Type: models.FieldTextarea},
		}},
	}
}

func TestImportRejectsUnknownPolicy(t *testing.T) {
	err := Import(context.Background(), "it-"+uuid.NewString(), nil, ImportPolicy("merge"))
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestReplaceImportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cat := "it-" + uuid.NewString()
	tree := builderTree(cat)

	require.NoError(t, Import(ctx, cat, tree, PolicyReplace))
	first, err := Freeze(ctx, cat)
	require.NoError(t, err)

	require.NoError(t, Import(ctx, cat, tree, PolicyReplace))
	second, err := Freeze(ctx, cat)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, second, 2)
	assert.Len(t, second[0].Questions, 2)
	assert.Len(t, second[1].Questions, 1)
}

func TestUpsertLeavesUnmentionedEntitiesUntouched(t *testing.T) {
	ctx := context.Background()
	cat := "it-" + uuid.NewString()
	require.NoError(t, Import(ctx, cat, builderTree(cat), PolicyReplace))

	patch := []models.SectionInput{
		{ID: cat + "-s1", Title: "General", Content: []models.QuestionInput{
			{ID: cat + "-q1", Label: "Site address (updated)", Type: models.FieldText},
		}},
	}
	require.NoError(t, Import(ctx, cat, patch, PolicyUpsert))

	tree, err := Freeze(ctx, cat)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	labels := map[string]string{}
	for _, sec := range tree {
		for _, q := range sec.Questions {
			labels[q.ID] = q.Label
		}
	}
	assert.Equal(t, "Site address (updated)", labels[cat+"-q1"])
	// q2 and the whole second section were not in the payload
	assert.Equal(t, "Inspector", labels[cat+"-q2"])
	assert.Equal(t, "Remarks", labels[cat+"-q3"])
	assert.Equal(t, "Findings", tree[1].Title)
}

func TestFailedImportRollsBackEverything(t *testing.T) {
	ctx := context.Background()
	cat := "it-" + uuid.NewString()
	require.NoError(t, Import(ctx, cat, builderTree(cat), PolicyReplace))

	before, err := Freeze(ctx, cat)
	require.NoError(t, err)
	backupsBefore, err := backupsCollection.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)

	// Duplicate section ids blow up the insert halfway through the batch.
	dup := []models.SectionInput{
		{ID: cat + "-dup", Title: "First"},
		{ID: cat + "-dup", Title: "Second"},
	}
	require.Error(t, Import(ctx, cat, dup, PolicyReplace))

	after, err := Freeze(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// The autosave written inside the same transaction is gone too.
	backupsAfter, err := backupsCollection.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, backupsBefore, backupsAfter)
}

func TestSnapshotSurvivesLaterImports(t *testing.T) {
	ctx := context.Background()
	cat := "it-" + uuid.NewString()
	require.NoError(t, Import(ctx, cat, builderTree(cat), PolicyReplace))

	snapshot, err := Freeze(ctx, cat)
	require.NoError(t, err)
	require.NotEmpty(t, snapshot)
	inspection := &models.Inspection{Category: cat, Snapshot: snapshot}

	replacement := []models.SectionInput{
		{ID: cat + "-s9", Title: "Replaced", Content: []models.QuestionInput{
			{ID: cat + "-q9", Label: "Only question", Type: models.FieldText},
		}},
	}
	require.NoError(t, Import(ctx, cat, replacement, PolicyReplace))

	// The record keeps rendering from its frozen copy...
	resolved, err := Resolve(ctx, inspection)
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "Site address", resolved[0].Questions[0].Label)

	// ...while records without one see the new live schema.
	live, err := Resolve(ctx, &models.Inspection{Category: cat})
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "Replaced", live[0].Title)
}
