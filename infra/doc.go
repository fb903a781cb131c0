// Package infra contains technical adapters such as the MQTT lineup
// publisher, metrics exporters, Sentry reporting and HTML charts. These
// packages should depend only on the interfaces defined in the core packages.
package infra
