// Package apiservices wires the remote repositories, caches and services of
// the back office together.
package apiservices

import (
	"fmt"
	"time"

	"github.com/Fuonder/bmadsoffice/internal/addresses"
	"github.com/Fuonder/bmadsoffice/internal/apiclient"
	"github.com/Fuonder/bmadsoffice/internal/auth"
	"github.com/Fuonder/bmadsoffice/internal/cache"
	"github.com/Fuonder/bmadsoffice/internal/customers"
	"github.com/Fuonder/bmadsoffice/internal/networks"
	"github.com/Fuonder/bmadsoffice/internal/orders"
	"github.com/Fuonder/bmadsoffice/internal/resource"
	"github.com/Fuonder/bmadsoffice/internal/resync"
	"github.com/Fuonder/bmadsoffice/internal/sharing"
	"github.com/Fuonder/bmadsoffice/internal/storage"
	"github.com/Fuonder/bmadsoffice/internal/wallets"
)

type APIServices struct {
	CustomerSrv customers.CustomerService
	OrderSrv    orders.OrderService
	NetworkSrv  networks.NetworkService
	AddressSrv  addresses.AddressService
	InvoiceSrv  wallets.InvoiceService
	SharedSrv   sharing.SharedService
	AuthSrv     auth.AuthService
	Audit       storage.AuditReader
}

type Config struct {
	Secret     []byte
	SessionTTL time.Duration
	AssetURL   string
}

// NewAPIServices builds every service on top of one remote client and
// registers each cached collection with the resync workers.
func NewAPIServices(cfg Config, client *apiclient.Client, store cache.Store, audit storage.AuditStorage, workers *resync.Service) (*APIServices, error) {
	if client == nil {
		return nil, fmt.Errorf("remote api client is required")
	}
	if audit == nil || workers == nil {
		return nil, fmt.Errorf("audit storage and resync workers are required")
	}
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("session secret is required")
	}
	tracker := resource.NewTracker(audit, workers)

	// networks -> addresses -> invoices, orders -> customers
	networkSrv := networks.NewService(networks.NewAPINetworks(client), store, tracker)
	addressSrv := addresses.NewService(addresses.NewAPIAddresses(client), networkSrv, store, tracker)
	invoiceSrv := wallets.NewService(wallets.NewAPIInvoices(client), addressSrv, store, tracker)
	orderSrv := orders.NewService(orders.NewAPIOrders(client), store, tracker)
	customerSrv := customers.NewService(customers.NewAPICustomers(client), orderSrv, cfg.AssetURL, store, tracker)
	sharedSrv := sharing.NewService(sharing.NewAPIShared(client), store, tracker)

	workers.Register(
		networkSrv.Collection(),
		addressSrv.Collection(),
		invoiceSrv.Collection(),
		orderSrv.Collection(),
		customerSrv.Collection(),
		sharedSrv.Collection(),
	)

	return &APIServices{
		CustomerSrv: customerSrv,
		OrderSrv:    orderSrv,
		NetworkSrv:  networkSrv,
		AddressSrv:  addressSrv,
		InvoiceSrv:  invoiceSrv,
		SharedSrv:   sharedSrv,
		AuthSrv:     auth.NewAService(client, cfg.Secret, cfg.SessionTTL),
		Audit:       audit,
	}, nil
}
