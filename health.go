// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package attesta

import (
	"encoding/json"
	"net/http"
)

const version string = "0.1.0"

// HealthInfo contains health check endpoint response.
type HealthInfo struct {
	// Status contains service status.
	Status string `json:"status"`

	// Service contains service name.
	Service string `json:"service"`

	// Version contains service current version value.
	Version string `json:"version"`
}

// Health exposes an HTTP handler for retrieving service health.
func Health(service string) http.HandlerFunc {
	return func(rw http.ResponseWriter, _ *http.Request) {
		res := HealthInfo{
			Status:  "pass",
			Service: service,
			Version: version,
		}

		rw.Header().Set("Content-Type", "application/health+json")
		data, _ := json.Marshal(res)
		rw.Write(data)
	}
}
