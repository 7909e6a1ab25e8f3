// Package talos implements the structured node health probe on top of the
// Talos machine API.
//
// Every node is asked for its service list. Each service with a known health
// state becomes one coded check message (200 healthy, 503 unhealthy); a node
// level error reported in the response metadata becomes a 503 message.
// Services whose health is unknown carry no code and therefore no verdict.
package talos
