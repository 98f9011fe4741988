/*
Package status implements the worker status registry of the PipeQueue
service: last-known-state tracking per named PIPE machine, no history.

Setting a status overwrites the previous record (last write wins) and stamps
it with the current time. Records never expire on their own; staleness is a
caller policy, supported by the Stale helper.
*/
package status
