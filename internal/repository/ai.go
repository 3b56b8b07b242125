package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-shopping-assistant/backend/internal/ai"
)

type AIRepository struct {
	db *pgxpool.Pool
}

// NewAIRepository создает репозиторий для AI-запросов.
func NewAIRepository(db *pgxpool.Pool) *AIRepository {
	return &AIRepository{db: db}
}

// LogRequest сохраняет лог AI-запроса.
func (r *AIRepository) LogRequest(ctx context.Context, record ai.CallRecord) error {
	var errorMessage *string
	if record.ErrorMessage != "" {
		errorMessage = &record.ErrorMessage
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO ai_requests
		 (id, request_type, provider, model, prompt, response_payload, raw_response, success, error_message)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::jsonb, $7, $8, $9)`,
		uuid.New(),
		record.RequestType,
		record.Provider,
		record.Model,
		record.Prompt,
		jsonText(record.ResponsePayload),
		string(record.RawResponse),
		record.Success,
		errorMessage,
	)
	return err
}

// jsonText возвращает payload, если это валидный JSON, иначе пустую строку.
func jsonText(payload []byte) string {
	if len(payload) == 0 || !json.Valid(payload) {
		return ""
	}
	return string(payload)
}
