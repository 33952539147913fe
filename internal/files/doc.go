// Package files provides file system operations and discovery utilities
// for QMT data directories.
//
// Discovery enumerates the DAT files of a market directory and derives each
// security code from its file name. Manager reads input files and prepares
// output directories.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.DataDir)
//	datFiles, err := discovery.FindDATFiles("szdayK")
//
//	manager := files.NewManager(paths, logger)
//	data, err := manager.ReadFile(datFiles[0].Path)
package files
