package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reviewhub/internal/app/reviews/entity"
	"reviewhub/pkg/logger"
	"reviewhub/pkg/metrics"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrReviewNotFound = errors.New("review not found")
)

const serviceName = "reviewhub"

type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository создает новый репозиторий отзывов
// Создает индексы по status и time для выборки опубликованных
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	collection := db.Collection("reviews")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_idx"),
		},
		{
			Keys:    bson.D{{Key: "time", Value: -1}},
			Options: options.Index().SetName("time_idx"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Индексы могут уже существовать, работу не прерываем
		logger.Warn().Err(err).Msg("Failed to create review indexes")
	}

	return &reviewRepository{
		collection: collection,
	}
}

// GetAll возвращает все сохраненные отзывы, новые по времени источника первыми
func (r *reviewRepository) GetAll(ctx context.Context) ([]entity.Review, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "reviews")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]entity.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

// GetByID получает отзыв по ID источника
func (r *reviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "reviews")
	defer timer.ObserveDuration()

	var review entity.Review
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

// GetByIDs возвращает отзывы с перечисленными ID
// Неизвестные ID молча пропускаются
func (r *reviewRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Review, error) {
	if len(ids) == 0 {
		return []entity.Review{}, nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "reviews")
	defer timer.ObserveDuration()

	filter := bson.M{"_id": bson.M{"$in": ids}}
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to find reviews by ids: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]entity.Review, 0, len(ids))
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

// GetPublished возвращает опубликованные отзывы с фильтром по оценке и лимитом
// Использует индексы status_idx и time_idx
func (r *reviewRepository) GetPublished(ctx context.Context, minRating, limit int) ([]entity.Review, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "reviews")
	defer timer.ObserveDuration()

	filter := bson.M{"status": entity.ReviewStatusPublished}
	if minRating > 0 {
		filter["rating"] = bson.M{"$gte": minRating}
	}

	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to find published reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]entity.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

// Upsert сохраняет результат merge одним bulk-запросом
// Каждый отзыв замещается целиком по _id, отсутствующие создаются
func (r *reviewRepository) Upsert(ctx context.Context, reviews []entity.Review) error {
	if len(reviews) == 0 {
		return nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpsert, "reviews")
	defer timer.ObserveDuration()

	models := make([]mongo.WriteModel, 0, len(reviews))
	for _, review := range reviews {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": review.ID}).
			SetReplacement(review).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpsert)
		return fmt.Errorf("failed to upsert reviews: %w", err)
	}

	return nil
}

// UpdateStatus меняет статус одного отзыва
func (r *reviewRepository) UpdateStatus(ctx context.Context, id string, status entity.ReviewStatus) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "reviews")
	defer timer.ObserveDuration()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update review status: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// UpdateStatusBulk меняет статус всех перечисленных отзывов
// Возвращает количество затронутых документов
func (r *reviewRepository) UpdateStatusBulk(ctx context.Context, ids []string, status entity.ReviewStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "reviews")
	defer timer.ObserveDuration()

	result, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return 0, fmt.Errorf("failed to update review statuses: %w", err)
	}

	return result.ModifiedCount, nil
}
