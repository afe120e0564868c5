// Package dataprocessing provides the core batch pipeline stages for
// campus meter data: ingestion, merging and aggregation.
//
// # Architecture
//
// The package is organized into four main components:
//
//  1. Parser: reads per-building CSV and XLSX meter exports
//  2. Ingestor: batch-loads a directory with per-file failure isolation
//  3. Merger: combines loaded files into one chronological dataset
//  4. Aggregator: computes daily, weekly and per-building aggregates
//
// # Usage
//
// Basic ingestion example:
//
//	ingestor := dataprocessing.NewIngestor(logger, baseDir)
//	meterFiles, stats, err := ingestor.IngestDirectory(ctx, "data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Merging and aggregating:
//
//	dataset := dataprocessing.NewMerger(logger).Merge(ctx, meterFiles)
//	aggregator := dataprocessing.NewAggregator(logger)
//	daily := aggregator.DailyTotals(ctx, dataset)
//	summaries := aggregator.BuildingSummaries(ctx, dataset)
//
// # Data Flow
//
// The typical data flow through this package:
//
//	Meter Files → Parser → Ingestor → Merger → Dataset → Aggregator → Artifacts
//
// # Error Handling
//
// A malformed file never aborts the batch: the ingestor logs the failure
// and continues with the remaining files. Within a file, rows whose cell
// count does not match the header are skipped, while unparseable
// timestamp or kwh values reject the whole file so silent data loss
// cannot hide a corrupt export.
package dataprocessing
