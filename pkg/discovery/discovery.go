package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/example/shopmate/pkg/config"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
)

// Registry announces running API instances in etcd under a leased key
// so the dashboard and ops tooling can locate them.
type Registry struct {
	client  *clientv3.Client
	prefix  string
	ttl     int64
	logger  *zap.Logger
	leaseID clientv3.LeaseID
	key     string
}

func NewRegistry(cfg *config.EtcdConfig, logger *zap.Logger) (*Registry, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to etcd: %w", err)
	}

	ttl := cfg.LeaseTTL
	if ttl <= 0 {
		ttl = 30
	}
	return &Registry{
		client: cli,
		prefix: cfg.Prefix,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Register puts the instance under a keep-alive lease; the key expires
// on its own if the process dies without deregistering.
func (r *Registry) Register(ctx context.Context, name, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	r.key = fmt.Sprintf("%s%s/%s", r.prefix, name, addr)

	lease, err := r.client.Grant(ctx, r.ttl)
	if err != nil {
		return fmt.Errorf("grant lease: %w", err)
	}
	r.leaseID = lease.ID

	if _, err := r.client.Put(ctx, r.key, addr, clientv3.WithLease(lease.ID)); err != nil {
		return fmt.Errorf("register instance: %w", err)
	}

	ch, err := r.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return fmt.Errorf("keep alive: %w", err)
	}
	go func() {
		for range ch {
		}
		r.logger.Warn("etcd keep-alive channel closed", zap.String("key", r.key))
	}()

	r.logger.Info("instance registered", zap.String("key", r.key))
	return nil
}

func (r *Registry) Deregister(ctx context.Context) error {
	if r.key == "" {
		return nil
	}
	if _, err := r.client.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("deregister instance: %w", err)
	}
	if r.leaseID != 0 {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		_, _ = r.client.Revoke(ctx, r.leaseID)
	}
	return nil
}

// Instances lists the registered addresses for a service name.
func (r *Registry) Instances(ctx context.Context, name string) ([]string, error) {
	resp, err := r.client.Get(ctx, fmt.Sprintf("%s%s/", r.prefix, name), clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	addrs := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		addrs = append(addrs, string(kv.Value))
	}
	return addrs, nil
}

func (r *Registry) Close() error {
	return r.client.Close()
}
