package jobs

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"Backend-InspectPortal/src/database"
	"Backend-InspectPortal/src/models"
	"Backend-InspectPortal/src/pdf"
	"Backend-InspectPortal/src/services/schema"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleRenderDocumentTask renders the filled report for a freshly submitted
// inspection and stores the output path back on the record.
func HandleRenderDocumentTask(ctx context.Context, t *asynq.Task) error {
	var payload InspectionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Println("❌ Payload decode error:", err)
		return err
	}

	id, err := primitive.ObjectIDFromHex(payload.InspectionID)
	if err != nil {
		return err
	}

	collection := database.GetCollection(database.DBName, "inspections")

	var inspection models.Inspection
	err = collection.FindOne(ctx, bson.M{"_id": id}).Decode(&inspection)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Println("⚠️ Inspection not found. Possibly deleted. Skipping render:", id.Hex())
			return nil // ✅ ไม่ถือว่า error
		}
		log.Println("❌ Failed to find inspection:", err)
		return err
	}

	sections, err := schema.Resolve(ctx, &inspection)
	if err != nil {
		log.Println("❌ Failed to resolve schema:", err)
		return err
	}

	uploadDir := os.Getenv("UPLOAD_FOLDER")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}

	generator := &pdf.Generator{
		Sections:   sections,
		Inspection: &inspection,
		UploadDir:  uploadDir,
	}
	relPath, err := generator.Create()
	if err != nil {
		log.Println("❌ Auto-render failed:", err)
		return err
	}

	_, err = collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"pdfPath": relPath, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Println("❌ Failed to store render path:", err)
		return err
	}

	log.Println("✅ Document rendered:", relPath)
	return nil
}

// StartWorker runs the asynq server in the current goroutine.
func StartWorker() {
	if database.RedisURI == "" {
		log.Println("⚠️ Redis not available. Background worker not started.")
		return
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: database.RedisURI},
		asynq.Config{Concurrency: 5},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeRenderDocument, HandleRenderDocumentTask)

	if err := srv.Run(mux); err != nil {
		log.Println("❌ Asynq worker stopped:", err)
	}
}
