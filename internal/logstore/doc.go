// Package logstore records leveled events into one plain-text file per UTC
// calendar day and serves bounded tail reads of those files.
//
// # Layout
//
// Every partition lives directly under the configured log directory as
// <YYYY-MM-DD>.log. Each line has the form
//
//	[2025-01-02T15:04:05.000Z] [INFO] message text
//
// Request records carry the REQUEST tag and a synthesized message:
//
//	[2025-01-02T15:04:05.000Z] [REQUEST] [GET] /logs/today 200 3ms
//
// Lines are never rewritten. The only mutations are appending to today's file
// and deleting a whole expired file.
//
// # Components
//
//   - Resolver: maps "today" and partition identifiers to file paths
//   - appender: serialized open/append/close of today's file
//   - Sweep: removes partitions older than the retention window
//   - readTail: ring-buffer read of the last N lines, O(N) memory
//   - Store: the facade other packages call
//   - Scheduler: owns the periodic sweep goroutine
//
// # Error Handling
//
// Record and Sweep never return errors. Their faults are counted and exposed
// through Store.Faults and the Options.OnFault hook so storage degradation is
// visible without breaking the caller.
//
// Read treats a missing partition as an empty, successful result with a
// message. Any other I/O error is returned.
//
// # Concurrency
//
// Appends are serialized with a mutex. Sweeps share no lock with appends:
// they skip today's partition explicitly, and append only ever targets
// today's partition. Reads are independent of each other and of appends.
// Multi-process writers are not coordinated.
package logstore
