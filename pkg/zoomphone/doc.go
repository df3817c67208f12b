// Package zoomphone is a client for the Zoom Phone REST API. It handles
// bearer authentication, cursor pagination over next_page_token, and
// bounded retries of rate-limited requests, and exposes typed operations
// for users, recordings, call logs, voicemails, phone numbers and
// calling plans.
package zoomphone
