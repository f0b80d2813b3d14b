package inspections

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"Backend-InspectPortal/src/database"
	"Backend-InspectPortal/src/jobs"
	"Backend-InspectPortal/src/models"
	"Backend-InspectPortal/src/pdf"
	"Backend-InspectPortal/src/services/schema"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	inspectionsCollection *mongo.Collection
	logsCollection        *mongo.Collection
)

func init() {
	// เชื่อมต่อกับ MongoDB
	if err := database.ConnectMongoDB(); err != nil {
		log.Fatal("MongoDB connection error:", err)
	}

	inspectionsCollection = database.InspectionCollection
	logsCollection = database.InspectionLogs

	if inspectionsCollection == nil || logsCollection == nil {
		log.Fatal("Failed to get the required collections")
	}
}

// UploadDir คืน path ของโฟลเดอร์ upload จาก env
func UploadDir() string {
	dir := os.Getenv("UPLOAD_FOLDER")
	if dir == "" {
		dir = "./uploads"
	}
	return dir
}

// Create สร้าง inspection ใหม่: scan ไฟล์แนบในโฟลเดอร์, freeze schema snapshot
// ลง record แล้วค่อย insert; snapshot จะไม่ถูกแก้อีกเลยหลังจากนี้
func Create(ctx context.Context, userID string, req *models.CreateInspectionRequest) (*models.Inspection, error) {
	variant := req.VariantType
	if !models.ValidVariant(variant) {
		variant = models.VariantSingleUnit
	}
	category := req.Category
	if category == "" {
		category = models.CategoryMain
	}

	folder := pdf.SanitizeName(req.Folder)
	if folder == "" || folder == "unnamed" {
		folder = pdf.SanitizeName(req.SiteName) + "_" + time.Now().Format("20060102")
	}

	attachments := listAttachments(folder)

	snapshot, err := schema.Freeze(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("freezing schema: %w", err)
	}

	answers := req.Answers
	if answers == nil {
		answers = map[string]interface{}{}
	}

	now := time.Now()
	inspection := &models.Inspection{
		UserID:      userID,
		SiteName:    req.SiteName,
		VariantType: variant,
		Category:    category,
		Status:      models.StatusSubmitted,
		// Only the folder is known yet; the filename is set by the first render.
		PDFPath:     folder + "/",
		Answers:     answers,
		Attachments: attachments,
		Snapshot:    snapshot,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := inspectionsCollection.InsertOne(ctx, inspection)
	if err != nil {
		return nil, err
	}
	inspection.ID = result.InsertedID.(primitive.ObjectID)

	// Render the document in the background so the report is ready right away.
	if database.AsynqClient != nil {
		task, err := jobs.NewRenderDocumentTask(inspection.ID.Hex())
		if err == nil {
			if _, err := database.AsynqClient.Enqueue(task); err != nil {
				log.Println("⚠️ Failed to enqueue render task:", err)
			}
		}
	}

	return inspection, nil
}

// GetAll retrieves inspections with pagination. Non-managers only see their own.
func GetAll(ctx context.Context, params models.PaginationParams, userID string, isManager bool) (*models.PaginatedResponse, error) {
	filter := bson.M{}
	if !isManager {
		filter["userId"] = userID
	}
	if params.Search != "" {
		filter["siteName"] = bson.M{"$regex": params.Search, "$options": "i"}
	}

	total, err := inspectionsCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit)).
		SetSort(params.GetSortOrder())

	cursor, err := inspectionsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	inspections := make([]models.Inspection, 0)
	if err = cursor.All(ctx, &inspections); err != nil {
		return nil, err
	}

	return models.NewPaginatedResponse(inspections, total, params), nil
}

// GetByID retrieves one inspection.
func GetByID(ctx context.Context, id primitive.ObjectID) (*models.Inspection, error) {
	var inspection models.Inspection
	err := inspectionsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&inspection)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &inspection, nil
}

// UpdateAnswers overwrites the stored answer map and logs the edit.
// The frozen snapshot is deliberately never part of this update.
func UpdateAnswers(ctx context.Context, id primitive.ObjectID, userID string, answers map[string]interface{}) error {
	result, err := inspectionsCollection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"answers": answers, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	writeLog(ctx, id, userID, "data_update", "Form answers edited.")
	return nil
}

// UpdateStatus moves the workflow forward. Owners may only go draft->submitted;
// managers may set anything.
func UpdateStatus(ctx context.Context, id primitive.ObjectID, userID, newStatus string, isManager bool) (*models.Inspection, error) {
	if !models.ValidStatus(newStatus) {
		return nil, models.NewValidationError("invalid status: " + newStatus)
	}

	inspection, err := GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner := inspection.UserID == userID
	allowSubmit := isOwner && inspection.Status == models.StatusDraft && newStatus == models.StatusSubmitted
	if !(isManager || allowSubmit) {
		return nil, models.ErrForbidden
	}

	oldStatus := inspection.Status
	_, err = inspectionsCollection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": newStatus, "updatedAt": time.Now()}},
	)
	if err != nil {
		return nil, err
	}

	if oldStatus != newStatus {
		writeLog(ctx, id, userID, "status_change",
			fmt.Sprintf("Status changed: %s -> %s", oldStatus, newStatus))
	}

	inspection.Status = newStatus
	return inspection, nil
}

// SetPDFPath stores the relative path of a finished render back on the record.
func SetPDFPath(ctx context.Context, id primitive.ObjectID, relPath string) error {
	_, err := inspectionsCollection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"pdfPath": relPath, "updatedAt": time.Now()}},
	)
	return err
}

// MetadataFields builds the headline facts for the detail view: every
// metadata-flagged question of the effective schema with its formatted answer.
func MetadataFields(ctx context.Context, inspection *models.Inspection) ([]models.MetadataField, error) {
	sections, err := schema.Resolve(ctx, inspection)
	if err != nil {
		return nil, err
	}

	fields := make([]models.MetadataField, 0)
	for _, sec := range sections {
		for _, q := range sec.Questions {
			if !q.IsMetadata {
				continue
			}
			fields = append(fields, models.MetadataField{
				Label: q.Label,
				Value: models.FormatAnswer(inspection.Answers[q.ID]),
			})
		}
	}
	return fields, nil
}

func writeLog(ctx context.Context, inspectionID primitive.ObjectID, userID, action, details string) {
	entry := models.InspectionLog{
		InspectionID: inspectionID,
		UserID:       userID,
		Action:       action,
		Details:      details,
		CreatedAt:    time.Now(),
	}
	if _, err := logsCollection.InsertOne(ctx, entry); err != nil {
		log.Println("⚠️ Failed to write inspection log:", err)
	}
}

// listAttachments scans the record's upload folder for regular files.
func listAttachments(folder string) []string {
	entries, err := os.ReadDir(filepath.Join(UploadDir(), folder))
	if err != nil {
		return []string{}
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files
}
