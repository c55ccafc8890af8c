// Package receiver implements OTLP HTTP and gRPC log ingestion,
// feeding each log record's body into an Ingester (a drain.Index or a
// sharding.Index).
//
// Trimmed from the teacher's internal/receiver: the metrics and traces
// endpoints are dropped along with the OTLP metrics/traces analyzers
// this rework has no use for, but the gzip-then-protobuf-then-JSON
// body parsing, the verbose-logging toggle, and the protobuf response
// writer are carried over unchanged — they are ambient OTLP-ingestion
// plumbing, not part of what changed.
package receiver

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var verboseLogging = strings.ToLower(os.Getenv("VERBOSE_LOGGING")) == "true"

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func decompressGzip(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// Ingester is anything that can absorb a single tokenized line — a
// *drain.Index directly, or a *sharding.Index fanning out across
// several.
type Ingester interface {
	ProcessLine(line string) (bool, error)
}

// HTTPReceiver handles OTLP/HTTP log export requests.
type HTTPReceiver struct {
	index  Ingester
	server *http.Server
}

// NewHTTPReceiver creates a new HTTP receiver bound to addr, feeding
// every ingested log record body into index.
func NewHTTPReceiver(addr string, index Ingester) *HTTPReceiver {
	r := &HTTPReceiver{index: index}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/logs", r.handleLogs)
	mux.HandleFunc("/health", r.handleHealth)

	r.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return r
}

// Start starts the HTTP server. It blocks until the server stops.
func (r *HTTPReceiver) Start() error {
	return r.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (r *HTTPReceiver) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}

func (r *HTTPReceiver) handleLogs(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reader := req.Body
	if req.Header.Get("Content-Encoding") == "gzip" {
		var err error
		reader, err = decompressGzip(req.Body)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to decompress: %v", err), http.StatusBadRequest)
			return
		}
		defer reader.Close()
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read body: %v", err), http.StatusBadRequest)
		return
	}
	defer req.Body.Close()

	var exportReq collogspb.ExportLogsServiceRequest
	if err := proto.Unmarshal(body, &exportReq); err != nil {
		unmarshaler := protojson.UnmarshalOptions{DiscardUnknown: true}
		if jsonErr := unmarshaler.Unmarshal(body, &exportReq); jsonErr != nil {
			log.Printf("Failed to parse logs as both protobuf and JSON\n")
			log.Printf("Protobuf error: %v\n", err)
			log.Printf("JSON error: %v\n", jsonErr)
			log.Printf("Body preview: %s\n", string(body[:min(len(body), 100)]))
			http.Error(w, fmt.Sprintf("Failed to parse request: protobuf error: %v, json error: %v", err, jsonErr), http.StatusBadRequest)
			return
		}
		if verboseLogging {
			fmt.Println("Parsed logs as JSON")
		}
	} else if verboseLogging {
		fmt.Println("Parsed logs as protobuf")
	}

	rejected, processErr := ingestLogs(r.index, &exportReq)
	if processErr != nil {
		log.Printf("Log ingestion error: %v\n", processErr)
		http.Error(w, fmt.Sprintf("Failed to ingest logs: %v", processErr), http.StatusInternalServerError)
		return
	}

	resp := &collogspb.ExportLogsServiceResponse{}
	if rejected > 0 {
		resp.PartialSuccess = &collogspb.ExportLogsPartialSuccess{
			RejectedLogRecords: int64(rejected),
			ErrorMessage:       "some log records failed classification",
		}
	}
	r.writeResponse(w, resp)
}

func (r *HTTPReceiver) handleHealth(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (r *HTTPReceiver) writeResponse(w http.ResponseWriter, resp proto.Message) {
	respBytes, err := proto.Marshal(resp)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to marshal response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, bytes.NewReader(respBytes))
}

// ingestLogs walks every log record in an OTLP export request and
// feeds its body text into index, in ResourceLogs → ScopeLogs →
// LogRecords order. It returns the count of records whose body failed
// to ingest.
func ingestLogs(index Ingester, req *collogspb.ExportLogsServiceRequest) (rejected int, err error) {
	if req == nil {
		return 0, fmt.Errorf("request cannot be nil")
	}
	for _, resourceLogs := range req.ResourceLogs {
		for _, scopeLogs := range resourceLogs.ScopeLogs {
			for _, logRecord := range scopeLogs.LogRecords {
				body := logRecord.GetBody().GetStringValue()
				if body == "" {
					continue
				}
				if _, ingestErr := index.ProcessLine(body); ingestErr != nil {
					rejected++
				}
			}
		}
	}
	return rejected, nil
}
