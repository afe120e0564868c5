// Package files provides file system discovery and artifact access
// for the campus energy reports pipeline.
//
// Discovery locates meter export files (CSV and XLSX) in the input
// directory, skipping Excel lock files and dotfiles, and returns them
// in name order so every run ingests files deterministically.
//
// Manager resolves logical paths ("data/...", "output/...", "logs/...")
// against the configured directory layout and reports the on-disk state
// of the pipeline artifacts for the report server's health endpoint.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/path/to/base")
//	meterFiles, err := discovery.FindMeterFiles("data")
//
//	manager := files.NewManager(paths)
//	if manager.FileExists("output/cleaned.csv") {
//	    // Serve report
//	}
package files
