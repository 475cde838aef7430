// Package http contains the HTTP handlers. Handlers decode and answer;
// validation and domain work live in the services they delegate to.
package http
