package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"Backend-InspectPortal/src/database"
	"Backend-InspectPortal/src/models"
	"Backend-InspectPortal/src/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ImportPolicy เลือกพฤติกรรมของการ import จาก form builder
type ImportPolicy string

const (
	// PolicyReplace ลบทุกอย่างใน category แล้วสร้างใหม่ทั้งหมดตาม payload
	PolicyReplace ImportPolicy = "replace"
	// PolicyUpsert อัปเดตตาม id ทีละตัว ของเดิมที่ไม่ถูกพูดถึงจะไม่ถูกแตะ
	PolicyUpsert ImportPolicy = "upsert"
)

// Import updates the schema store so it reflects the given tree, under one
// transaction: a failure anywhere rolls back every write of this call, so the
// store never shows a half-imported state. An autosave backup of the raw
// payload is written in the same transaction.
func Import(ctx context.Context, category string, inputs []models.SectionInput, policy ImportPolicy) error {
	if category == "" {
		category = models.CategoryMain
	}
	switch policy {
	case PolicyReplace, PolicyUpsert:
	default:
		return models.NewValidationError("unknown import policy: " + string(policy))
	}

	tree := models.NormalizeTree(category, inputs)

	session, err := database.Client.StartSession()
	if err != nil {
		return fmt.Errorf("starting import session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := saveBackup(sc, category, inputs); err != nil {
			return nil, err
		}
		if policy == PolicyReplace {
			return nil, applyReplace(sc, category, tree)
		}
		return nil, applyUpsert(sc, tree)
	})
	if err != nil {
		return fmt.Errorf("schema import (%s) failed: %w", policy, err)
	}

	utils.InvalidateSchemaCache(category)
	log.Printf("✅ Schema import (%s) applied: %d sections in category %q", policy, len(tree), category)
	return nil
}

// applyReplace drops the whole category and recreates it from the payload.
func applyReplace(sc mongo.SessionContext, category string, tree []models.SectionWithQuestions) error {
	// Cascade: questions go with their sections.
	existingIDs, err := sectionIDsInCategory(sc, category)
	if err != nil {
		return err
	}
	if len(existingIDs) > 0 {
		if _, err := questionsCollection.DeleteMany(sc, bson.M{"sectionId": bson.M{"$in": existingIDs}}); err != nil {
			return err
		}
	}
	if _, err := sectionsCollection.DeleteMany(sc, bson.M{"category": category}); err != nil {
		return err
	}

	sections := make([]interface{}, 0, len(tree))
	questions := make([]interface{}, 0)
	for _, node := range tree {
		sections = append(sections, node.Section)
		for _, q := range node.Questions {
			questions = append(questions, q)
		}
	}

	if len(sections) > 0 {
		if _, err := sectionsCollection.InsertMany(sc, sections); err != nil {
			return err
		}
	}
	if len(questions) > 0 {
		if _, err := questionsCollection.InsertMany(sc, questions); err != nil {
			return err
		}
	}
	return nil
}

// applyUpsert overwrites each mentioned entity by id, creating it when absent.
// Everything the payload does not mention is left exactly as it was.
func applyUpsert(sc mongo.SessionContext, tree []models.SectionWithQuestions) error {
	opts := options.Replace().SetUpsert(true)
	for _, node := range tree {
		if _, err := sectionsCollection.ReplaceOne(sc, bson.M{"_id": node.ID}, node.Section, opts); err != nil {
			return err
		}
		for _, q := range node.Questions {
			if _, err := questionsCollection.ReplaceOne(sc, bson.M{"_id": q.ID}, q, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func sectionIDsInCategory(sc mongo.SessionContext, category string) ([]string, error) {
	cursor, err := sectionsCollection.Find(sc, bson.M{"category": category},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(sc)

	var rows []struct {
		ID string `bson:"_id"`
	}
	if err = cursor.All(sc, &rows); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// saveBackup stores the raw import payload so the form builder can restore
// older configurations.
func saveBackup(sc mongo.SessionContext, category string, inputs []models.SectionInput) error {
	data, err := json.Marshal(inputs)
	if err != nil {
		return models.NewValidationError("import payload is not serializable: " + err.Error())
	}

	backup := models.SchemaBackup{
		Name:      "AutoSave " + time.Now().Format("02.01. 15:04"),
		Category:  category,
		DataJSON:  string(data),
		CreatedAt: time.Now(),
	}
	_, err = backupsCollection.InsertOne(sc, backup)
	return err
}
