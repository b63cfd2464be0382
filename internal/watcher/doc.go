// Package watcher reports debounced filesystem change notifications for
// graph definition files, driving live reload in watch mode.
package watcher
