// Package lock guards against overlapping cfgbak invocations.
//
// cfgbak itself is single-threaded and run-once, but the external scheduler
// can start a new run before a slow one finishes. Each repository path maps
// to a lock file in the system temp directory; the file is created
// atomically, locked with flock, and stamped with the holder's PID so that
// locks abandoned by crashed processes can be detected and reclaimed.
package lock
