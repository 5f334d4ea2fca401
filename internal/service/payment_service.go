package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"vendora/config"
	"vendora/internal/domain"
	"vendora/internal/models"
	"vendora/internal/repository"
	"vendora/pkg/payment"

	"gorm.io/gorm"
)

var providerLabels = map[string]string{
	domain.ProviderPaypal:   "PayPal",
	domain.ProviderStripe:   "Stripe",
	domain.ProviderFedapay:  "FedaPay",
	domain.ProviderKkiapay:  "KkiaPay",
	domain.ProviderCinetpay: "CinetPay",
}

// PaymentService is the intent orchestrator: it loads the store's credential
// bundle, picks the adapter for the requested method and hands back the
// normalized result. Missing credentials fail fast before any network call.
type PaymentService struct {
	cfg      *config.Config
	configs  *repository.PaymentConfigRepository
	orders   *repository.OrderRepository
	paypal   *payment.PaypalAdapter
	stripe   *payment.StripeAdapter
	fedapay  *payment.FedapayAdapter
	kkiapay  *payment.KkiapayAdapter
	cinetpay *payment.CinetpayAdapter
}

func NewPaymentService(cfg *config.Config, configs *repository.PaymentConfigRepository, orders *repository.OrderRepository) *PaymentService {
	fx := payment.NewFxTable()
	if err := fx.Set("XOF", "USD", cfg.Fx.XOFToUSD); err != nil {
		log.Printf("[Payment] bad FX_XOF_USD: %v", err)
	}
	if err := fx.Set("XOF", "EUR", cfg.Fx.XOFToEUR); err != nil {
		log.Printf("[Payment] bad FX_XOF_EUR: %v", err)
	}
	return &PaymentService{
		cfg:      cfg,
		configs:  configs,
		orders:   orders,
		paypal:   payment.NewPaypalAdapter(cfg.Paypal.LiveURL, cfg.Paypal.SandboxURL, fx),
		stripe:   payment.NewStripeAdapter(),
		fedapay:  payment.NewFedapayAdapter(cfg.Fedapay.LiveURL, cfg.Fedapay.SandboxURL),
		kkiapay:  payment.NewKkiapayAdapter(cfg.Kkiapay.BaseURL),
		cinetpay: payment.NewCinetpayAdapter(cfg.Cinetpay.BaseURL),
	}
}

// CreateIntent builds the provider transaction for an order. On success the
// provider transaction id is written back as the order's correlation key so
// the later webhook can find it.
func (s *PaymentService) CreateIntent(ctx context.Context, method string, order *models.Order, customer Customer) (payment.Result, error) {
	storeCfg, err := s.configs.GetByStoreID(order.StoreID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return payment.Result{}, err
	}
	base := s.cfg.Server.PublicBaseURL
	intent := payment.Intent{
		Reference:     order.ID,
		Amount:        order.Total,
		Currency:      order.Currency,
		Description:   fmt.Sprintf("Commande %s", shortID(order.ID)),
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		SuccessURL:    base + "/checkout/success?order=" + order.ID,
		CancelURL:     base + "/checkout/cancel?order=" + order.ID,
		NotifyURL:     base + "/api/v1/webhooks/payment",
	}

	var result payment.Result
	switch method {
	case domain.ProviderPaypal:
		if !storeCfg.PaypalConfigured() {
			return payment.Result{}, s.notConfigured(method)
		}
		result = s.paypal.CreateTransaction(ctx, intent, payment.PaypalCredentials{
			ClientID: storeCfg.PaypalClientID,
			Secret:   storeCfg.PaypalSecret,
			Sandbox:  storeCfg.PaypalSandbox,
		})
	case domain.ProviderStripe:
		if !storeCfg.StripeConfigured() {
			return payment.Result{}, s.notConfigured(method)
		}
		result = s.stripe.CreateTransaction(ctx, intent, payment.StripeCredentials{
			SecretKey:     storeCfg.StripeSecretKey,
			PublicKey:     storeCfg.StripePublicKey,
			WebhookSecret: storeCfg.StripeWebhookSecret,
		})
	case domain.ProviderFedapay:
		if !storeCfg.FedapayConfigured() {
			return payment.Result{}, s.notConfigured(method)
		}
		result = s.fedapay.CreateTransaction(ctx, intent, payment.FedapayCredentials{
			SecretKey: storeCfg.FedapaySecretKey,
			Sandbox:   storeCfg.FedapaySandbox,
		})
	case domain.ProviderKkiapay:
		if !storeCfg.KkiapayConfigured() {
			return payment.Result{}, s.notConfigured(method)
		}
		result = s.kkiapay.CreateTransaction(ctx, intent, payment.KkiapayCredentials{
			PublicKey:  storeCfg.KkiapayPublicKey,
			PrivateKey: storeCfg.KkiapayPrivateKey,
		})
	case domain.ProviderCinetpay:
		if !storeCfg.CinetpayConfigured() {
			return payment.Result{}, s.notConfigured(method)
		}
		result = s.cinetpay.CreateTransaction(ctx, intent, payment.CinetpayCredentials{
			APIKey: storeCfg.CinetpayAPIKey,
			SiteID: storeCfg.CinetpaySiteID,
		})
	default:
		return payment.Result{}, fmt.Errorf("unsupported payment method %q", method)
	}

	if result.Failed() {
		log.Printf("[Payment] %s intent failed order=%s kind=%s: %s", method, order.ID, result.ErrorKind, result.ErrorMessage)
		return result, nil
	}
	if result.TransactionID != "" {
		if err := s.orders.SetProviderOrderID(order.ID, result.TransactionID); err != nil {
			log.Printf("[Payment] failed to store provider ref order=%s ref=%s: %v", order.ID, result.TransactionID, err)
		}
	}
	return result, nil
}

// ConfirmPayment is the pull-based verification path for client-driven
// providers: an authenticated status check against the provider API, never a
// trust-the-browser shortcut.
func (s *PaymentService) ConfirmPayment(ctx context.Context, method, transactionID string, storeID uint) (bool, error) {
	if method != domain.ProviderKkiapay {
		return false, fmt.Errorf("confirmation not supported for method %q", method)
	}
	storeCfg, err := s.configs.GetByStoreID(storeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if !storeCfg.KkiapayConfigured() || storeCfg.KkiapayPrivateKey == "" {
		return false, s.notConfigured(method)
	}
	return s.kkiapay.VerifyTransaction(ctx, transactionID, payment.KkiapayCredentials{
		PublicKey:  storeCfg.KkiapayPublicKey,
		PrivateKey: storeCfg.KkiapayPrivateKey,
	})
}

// AttachTransaction records a widget-allocated transaction id as the order's
// correlation key. KkiaPay is the only flow where the provider reference does
// not exist yet at intent creation, so the success page reports it here before
// reconciliation. An order that already carries a correlation key keeps it.
func (s *PaymentService) AttachTransaction(orderID string, storeID uint, transactionID string) error {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		}
		return err
	}
	if order.StoreID != storeID {
		return domain.ErrOrderNotFound
	}
	if order.ProviderOrderID != nil && *order.ProviderOrderID != "" {
		return nil
	}
	log.Printf("[Payment] attaching tx=%s to order=%s", transactionID, orderID)
	return s.orders.SetProviderOrderID(orderID, transactionID)
}

func (s *PaymentService) notConfigured(method string) error {
	label := providerLabels[method]
	if label == "" {
		label = method
	}
	return fmt.Errorf("%s non configuré sur cette boutique: %w", label, domain.ErrConfigurationMissing)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
