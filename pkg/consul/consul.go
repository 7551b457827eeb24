package consul

import (
	"fmt"
	"strconv"

	"agenda-service/config"

	consulapi "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

type ConsulConn struct {
	logger    *zap.SugaredLogger
	cfg       *config.Config
	client    *consulapi.Client
	serviceID string
}

func NewConsulConn(logger *zap.SugaredLogger, cfg *config.Config) *ConsulConn {
	return &ConsulConn{
		logger:    logger,
		cfg:       cfg,
		serviceID: fmt.Sprintf("%s-%s-%s", cfg.ServiceName, cfg.ServiceHost, cfg.Port),
	}
}

// Connect registers the service with an HTTP health check on /health.
func (c *ConsulConn) Connect() (*consulapi.Client, error) {
	consulCfg := consulapi.DefaultConfig()
	consulCfg.Address = c.cfg.ConsulAddr

	client, err := consulapi.NewClient(consulCfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}

	port, err := strconv.Atoi(c.cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", c.cfg.Port, err)
	}

	registration := &consulapi.AgentServiceRegistration{
		ID:      c.serviceID,
		Name:    c.cfg.ServiceName,
		Address: c.cfg.ServiceHost,
		Port:    port,
		Tags:    []string{"agenda", "http"},
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", c.cfg.ServiceHost, port),
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return nil, fmt.Errorf("consul register: %w", err)
	}

	c.client = client
	c.logger.Infow("registered with consul", "service_id", c.serviceID, "address", c.cfg.ConsulAddr)
	return client, nil
}

// Register connects and returns the call that undoes it. On error nothing
// was registered and there is nothing to undo.
func (c *ConsulConn) Register() (func(), error) {
	if _, err := c.Connect(); err != nil {
		return nil, err
	}
	return c.Deregister, nil
}

func (c *ConsulConn) Deregister() {
	if c.client == nil {
		return
	}
	if err := c.client.Agent().ServiceDeregister(c.serviceID); err != nil {
		c.logger.Errorw("consul deregister failed", "service_id", c.serviceID, "error", err)
		return
	}
	c.logger.Infow("deregistered from consul", "service_id", c.serviceID)
}
