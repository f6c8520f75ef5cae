package metrics

import (
	"time"
)

type DbOperation string

const (
	DbOpFind   DbOperation = "find"
	DbOpUpsert DbOperation = "upsert"
	DbOpUpdate DbOperation = "update"
	DbOpInsert DbOperation = "insert"
	DbOpDelete DbOperation = "delete"
)

// DbTimer замеряет длительность одного запроса к хранилищу
type DbTimer struct {
	service    string
	operation  DbOperation
	collection string
	start      time.Time
}

func NewDbTimer(service string, op DbOperation, collection string) *DbTimer {
	return &DbTimer{
		service:    service,
		operation:  op,
		collection: collection,
		start:      time.Now(),
	}
}

func (dt *DbTimer) ObserveDuration() {
	DbQueryDuration.WithLabelValues(dt.service, string(dt.operation), dt.collection).Observe(time.Since(dt.start).Seconds())
}

func RecordDbError(service string, op DbOperation) {
	DbErrors.WithLabelValues(service, string(op)).Inc()
}

func RecordCacheHit(service, keyPrefix string) {
	RedisCacheHits.WithLabelValues(service, keyPrefix).Inc()
}

func RecordCacheMiss(service, keyPrefix string) {
	RedisCacheMisses.WithLabelValues(service, keyPrefix).Inc()
}

func RecordRedisError(service, operation string) {
	RedisErrors.WithLabelValues(service, operation).Inc()
}

// KafkaProduceTimer замеряет отправку одного события пайплайна
type KafkaProduceTimer struct {
	service string
	topic   string
	start   time.Time
}

func NewKafkaProduceTimer(service, topic string) *KafkaProduceTimer {
	return &KafkaProduceTimer{
		service: service,
		topic:   topic,
		start:   time.Now(),
	}
}

func (kt *KafkaProduceTimer) Success() {
	KafkaMessagesProduced.WithLabelValues(kt.service, kt.topic).Inc()
	KafkaProduceDuration.WithLabelValues(kt.service, kt.topic).Observe(time.Since(kt.start).Seconds())
}

func (kt *KafkaProduceTimer) Error() {
	KafkaErrors.WithLabelValues(kt.service, kt.topic, "produce").Inc()
}

// RecordEndpointResult фиксирует исход отправки на площадку
func RecordEndpointResult(endpoint string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	DistributionEndpointResults.WithLabelValues(endpoint, result).Inc()
}
