package service

import (
	"time"

	"reviewhub/internal/app/reviews/entity"
)

// MergeReviews сливает свежевыбранные отзывы с уже сохраненными.
//
// Контентные поля (author_name, rating, text, time, profile_photo_url)
// всегда берутся из входящего отзыва. Поля, которыми владеет оператор
// (status, dateAdded), для известных ID сохраняются из существующей записи;
// новые отзывы получают status=new и dateAdded=now. Merge только добавляет:
// отзывы, не попавшие в свежую выборку, остаются без изменений.
//
// Порядок результата: существующие отзывы на своих местах, новые в порядке
// появления во входящем наборе. Сортировку выполняет вызывающий.
func MergeReviews(existing, incoming []entity.Review, now time.Time) (merged []entity.Review, newReviews []entity.Review) {
	merged = make([]entity.Review, len(existing))
	copy(merged, existing)

	index := make(map[string]int, len(existing))
	for i, review := range existing {
		index[review.ID] = i
	}

	for _, inc := range incoming {
		if pos, ok := index[inc.ID]; ok {
			current := merged[pos]

			updated := inc
			updated.Status = current.Status
			updated.DateAdded = current.DateAdded

			// Защита от записей без операторских полей
			if updated.Status == "" {
				updated.Status = entity.ReviewStatusNew
			}
			if updated.DateAdded.IsZero() {
				updated.DateAdded = now
			}

			merged[pos] = updated
			continue
		}

		fresh := inc
		if fresh.Status == "" {
			fresh.Status = entity.ReviewStatusNew
		}
		if fresh.DateAdded.IsZero() {
			fresh.DateAdded = now
		}

		merged = append(merged, fresh)
		index[fresh.ID] = len(merged) - 1
		newReviews = append(newReviews, fresh)
	}

	return merged, newReviews
}
