// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic operations the notification pipeline requires.
//
// # Available Jobs
//
// 1. OutboxDispatchJob - Runs every ten seconds to claim due outbox entries
// and deliver them through the push and email channels
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(processOutboxHandler, workerID, batchSize, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The dispatch job uses the cron expression "*/10 * * * * *": one worker
// iteration every ten seconds, aligned with the retry policy's base delay.
// Multiple service replicas may run the job concurrently; the claim query
// guarantees no entry is handed to two instances.
//
// # Error Handling
//
// Iteration failures are logged and the next tick retries; a crashed
// iteration never loses entries because claimed rows stay in processing
// and outcomes are recorded per entry.
package jobs
