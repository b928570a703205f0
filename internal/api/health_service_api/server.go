package health_service_api

import (
	"context"
	"log"
	"sort"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Probe reports whether one backing dependency is reachable.
type Probe func(ctx context.Context) error

// Server implements grpc.health.v1.Health on top of dependency probes. The
// empty service name checks every probe.
type Server struct {
	grpc_health_v1.UnimplementedHealthServer
	probes  map[string]Probe
	timeout time.Duration
}

func NewServer(probes map[string]Probe, timeout time.Duration) *Server {
	if probes == nil {
		probes = map[string]Probe{}
	}
	return &Server{probes: probes, timeout: timeout}
}

func (s *Server) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	name := req.GetService()
	if name != "" {
		probe, ok := s.probes[name]
		if !ok {
			return nil, status.Errorf(codes.NotFound, "unknown service %q", name)
		}
		return response(s.run(ctx, name, probe)), nil
	}

	healthy := true
	for _, n := range s.names() {
		if !s.run(ctx, n, s.probes[n]) {
			healthy = false
		}
	}
	return response(healthy), nil
}

func (s *Server) run(ctx context.Context, name string, probe Probe) bool {
	if err := probe(ctx); err != nil {
		log.Printf("health probe failed: dependency=%s err=%v", name, err)
		return false
	}
	return true
}

func (s *Server) names() []string {
	names := make([]string, 0, len(s.probes))
	for n := range s.probes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func response(healthy bool) *grpc_health_v1.HealthCheckResponse {
	if healthy {
		return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}
	}
	return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_NOT_SERVING}
}
