package schema

import (
	"context"
	"log"

	"Backend-InspectPortal/src/database"
	"Backend-InspectPortal/src/models"
	"Backend-InspectPortal/src/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	sectionsCollection  *mongo.Collection
	questionsCollection *mongo.Collection
	backupsCollection   *mongo.Collection
)

func init() {
	// เชื่อมต่อกับ MongoDB
	if err := database.ConnectMongoDB(); err != nil {
		log.Fatal("MongoDB connection error:", err)
	}

	sectionsCollection = database.SectionCollection
	questionsCollection = database.QuestionCollection
	backupsCollection = database.SchemaBackups

	if sectionsCollection == nil || questionsCollection == nil || backupsCollection == nil {
		log.Fatal("Failed to get the required collections")
	}
}

// loadTree reads every section (with questions) of a category, ordered by
// section order then question order. This is the raw row form.
func loadTree(ctx context.Context, category string) ([]models.SectionWithQuestions, error) {
	secOpts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := sectionsCollection.Find(ctx, bson.M{"category": category}, secOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sections []models.Section
	if err = cursor.All(ctx, &sections); err != nil {
		return nil, err
	}

	tree := make([]models.SectionWithQuestions, 0, len(sections))
	for _, sec := range sections {
		qOpts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
		qCursor, err := questionsCollection.Find(ctx, bson.M{"sectionId": sec.ID}, qOpts)
		if err != nil {
			return nil, err
		}

		var questions []models.Question
		if err = qCursor.All(ctx, &questions); err != nil {
			qCursor.Close(ctx)
			return nil, err
		}
		qCursor.Close(ctx)

		tree = append(tree, models.SectionWithQuestions{Section: sec, Questions: questions})
	}

	return tree, nil
}

// GetConfig returns the live schema of a category in parsed form, cached in
// Redis until the next import.
func GetConfig(ctx context.Context, category string) ([]models.SchemaSection, error) {
	if category == "" {
		category = models.CategoryMain
	}

	if cached, ok := utils.GetCachedSchemaConfig(category); ok {
		return cached, nil
	}

	tree, err := loadTree(ctx, category)
	if err != nil {
		return nil, err
	}

	sections := models.ParseSnapshot(tree)
	utils.CacheSchemaConfig(category, sections)
	return sections, nil
}

// Freeze produces the self-contained schema copy that gets embedded into a
// new inspection. Later edits to the live schema cannot touch this copy.
func Freeze(ctx context.Context, category string) ([]models.SectionWithQuestions, error) {
	if category == "" {
		category = models.CategoryMain
	}
	return loadTree(ctx, category)
}

// Resolve returns the effective schema for an inspection: its frozen snapshot
// when it has one, otherwise the live schema of its category. Records created
// before snapshotting existed still render this way.
func Resolve(ctx context.Context, inspection *models.Inspection) ([]models.SchemaSection, error) {
	if inspection != nil && len(inspection.Snapshot) > 0 {
		return models.ParseSnapshot(inspection.Snapshot), nil
	}

	category := models.CategoryMain
	if inspection != nil && inspection.Category != "" {
		category = inspection.Category
	}

	tree, err := loadTree(ctx, category)
	if err != nil {
		return nil, err
	}
	return models.ParseSnapshot(tree), nil
}

// ListBackups returns the most recent import autosaves, newest first.
func ListBackups(ctx context.Context, limit int64) ([]models.SchemaBackup, error) {
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := backupsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var backups []models.SchemaBackup
	if err = cursor.All(ctx, &backups); err != nil {
		return nil, err
	}
	return backups, nil
}
