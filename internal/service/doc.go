// Package service is the data service behind the admin panel.
//
// Every operation waits a fixed latency, then locks the collections it
// touches in the order customers, packages, orders, and returns a Result.
//
// Domain files:
// - orders: order CRUD and the joined details view
// - customers: customer CRUD and per-status order counts
// - packages: package CRUD
// - dashboard: collection counts
// - snapshot: whole-dataset export and import
package service
