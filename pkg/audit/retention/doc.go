// Package retention prunes audit records older than a configured number of
// days, either on demand or on a cron schedule.
package retention
