// Package connectors holds the driven adapters that talk to remote code
// hosting APIs. Each subpackage implements driven.SearchClient for one host;
// github is the only one today.
package connectors
