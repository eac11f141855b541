// Package messaging publishes and consumes domain events over NSQ, NATS,
// Kafka, Google Pub/Sub or an in-process broker.
//
// Usecases depend on Publisher or Consumer only, so the broker is picked by
// configuration at startup.
package messaging
