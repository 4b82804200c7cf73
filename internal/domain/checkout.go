package domain

import "time"

// CheckoutStatus описывает жизненный цикл checkout-сессии.
type CheckoutStatus string

const (
	// CheckoutStatusNotReadyForPayment — сессия создана, но адрес доставки или способ доставки ещё не выбраны.
	CheckoutStatusNotReadyForPayment CheckoutStatus = "not_ready_for_payment"
	// CheckoutStatusReadyForPayment — адрес и способ доставки заданы, сессия готова к оплате.
	CheckoutStatusReadyForPayment CheckoutStatus = "ready_for_payment"
	// CheckoutStatusCompleted — оплата подтверждена, сессия финализирована (терминальный статус).
	CheckoutStatusCompleted CheckoutStatus = "completed"
	// CheckoutStatusCanceled — сессия отменена до оплаты (терминальный статус).
	CheckoutStatusCanceled CheckoutStatus = "canceled"
)

// Terminal сообщает, допускает ли статус дальнейшие изменения сессии.
func (s CheckoutStatus) Terminal() bool {
	return s == CheckoutStatusCompleted || s == CheckoutStatusCanceled
}

// MessageType определяет вид сообщения в ленте сессии.
type MessageType string

const (
	MessageTypeInfo  MessageType = "info"
	MessageTypeError MessageType = "error"
)

// Message — информационное или ошибочное сообщение, прикреплённое к сессии.
type Message struct {
	Type        MessageType `json:"type"`
	ContentType string      `json:"content_type"`
	Content     string      `json:"content"`
}

// Buyer содержит контактные данные покупателя.
type Buyer struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Address — адрес доставки заказа.
type Address struct {
	Name       string `json:"name"`
	LineOne    string `json:"line_one"`
	LineTwo    string `json:"line_two,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// PaymentProvider описывает платёжного провайдера сессии.
// Присутствует до завершения оплаты, после completion удаляется из снапшота.
type PaymentProvider struct {
	Provider                string   `json:"provider"`
	SupportedPaymentMethods []string `json:"supported_payment_methods"`
}

// LinkType перечисляет поддерживаемые виды ссылок сессии.
type LinkType string

const (
	LinkTypeTermsOfUse    LinkType = "terms_of_use"
	LinkTypePrivacyPolicy LinkType = "privacy_policy"
)

// Link — ссылка на юридический документ продавца.
type Link struct {
	Type LinkType `json:"type"`
	URL  string   `json:"url"`
}

// Order — запись о заказе, создаваемая при завершении checkout.
type Order struct {
	ID                string `json:"id"`
	CheckoutSessionID string `json:"checkout_session_id"`
	PermalinkURL      string `json:"permalink_url"`
}

// CheckoutSession агрегирует состояние одной попытки покупки.
// totals всегда пересчитываются из line_items и выбранного способа
// доставки, никогда не хранятся независимо от своих источников.
type CheckoutSession struct {
	ID                  string              `json:"id"`
	Buyer               *Buyer              `json:"buyer,omitempty"`
	PaymentProvider     *PaymentProvider    `json:"payment_provider,omitempty"`
	Status              CheckoutStatus      `json:"status"`
	Currency            string              `json:"currency"`
	LineItems           []LineItem          `json:"line_items"`
	FulfillmentAddress  *Address            `json:"fulfillment_address,omitempty"`
	FulfillmentOptions  []FulfillmentOption `json:"fulfillment_options"`
	FulfillmentOptionID string              `json:"fulfillment_option_id,omitempty"`
	Totals              []Total             `json:"totals"`
	Messages            []Message           `json:"messages"`
	Links               []Link              `json:"links"`

	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Clone возвращает глубокую копию сессии: слайсы и вложенные указатели
// копируются, чтобы снапшоты из хранилища нельзя было мутировать извне.
func (c CheckoutSession) Clone() CheckoutSession {
	clone := c

	if c.Buyer != nil {
		buyer := *c.Buyer
		clone.Buyer = &buyer
	}
	if c.FulfillmentAddress != nil {
		addr := *c.FulfillmentAddress
		clone.FulfillmentAddress = &addr
	}
	if c.PaymentProvider != nil {
		provider := *c.PaymentProvider
		provider.SupportedPaymentMethods = append([]string(nil), c.PaymentProvider.SupportedPaymentMethods...)
		clone.PaymentProvider = &provider
	}

	// Форма s[:0:0] сохраняет nil/не-nil исходного слайса.
	clone.LineItems = append(c.LineItems[:0:0], c.LineItems...)
	clone.FulfillmentOptions = append(c.FulfillmentOptions[:0:0], c.FulfillmentOptions...)
	clone.Totals = append(c.Totals[:0:0], c.Totals...)
	clone.Messages = append(c.Messages[:0:0], c.Messages...)
	clone.Links = append(c.Links[:0:0], c.Links...)

	return clone
}

// SelectedFulfillmentOption возвращает выбранный способ доставки или nil,
// если опция не выбрана либо не относится к типу shipping.
func (c *CheckoutSession) SelectedFulfillmentOption() *FulfillmentOption {
	if c.FulfillmentOptionID == "" {
		return nil
	}
	for i := range c.FulfillmentOptions {
		opt := &c.FulfillmentOptions[i]
		if opt.ID == c.FulfillmentOptionID && opt.Type == FulfillmentTypeShipping {
			return opt
		}
	}
	return nil
}

// HasFulfillmentOption проверяет, входит ли optionID в фиксированный список сессии.
func (c *CheckoutSession) HasFulfillmentOption(optionID string) bool {
	for _, opt := range c.FulfillmentOptions {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// TotalAmount возвращает сумму grand total из пересчитанных totals
// или ErrInvalidTotal, если запись типа total отсутствует.
func (c *CheckoutSession) TotalAmount() (int64, error) {
	for _, t := range c.Totals {
		if t.Type == TotalTypeTotal {
			return t.Amount, nil
		}
	}
	return 0, ErrInvalidTotal
}

// AppendMessage добавляет сообщение в конец ленты сессии.
func (c *CheckoutSession) AppendMessage(msgType MessageType, content string) {
	c.Messages = append(c.Messages, Message{
		Type:        msgType,
		ContentType: "plain",
		Content:     content,
	})
}

// ValidateInvariants проверяет базовые инварианты сессии и возвращает список замечаний.
func (c *CheckoutSession) ValidateInvariants() []error {
	var errs []error

	if c.Currency == "" {
		errs = append(errs, ErrCurrencyRequired)
	}
	if len(c.LineItems) == 0 {
		errs = append(errs, ErrEmptyItems)
	}

	for _, li := range c.LineItems {
		if li.Item.Quantity <= 0 {
			errs = append(errs, ErrItemQuantityInvalid)
		}
		if li.Total < 0 {
			errs = append(errs, ErrItemTotalNegative)
		}
	}

	// Статус ready_for_payment допустим только при заданных адресе и способе доставки.
	if c.Status == CheckoutStatusReadyForPayment {
		if c.FulfillmentAddress == nil || c.FulfillmentOptionID == "" {
			errs = append(errs, ErrStatusInconsistent)
		}
	}

	// Сверяем grand total с суммой компонентов.
	var subtotal, fulfillment, tax, total int64
	for _, t := range c.Totals {
		switch t.Type {
		case TotalTypeSubtotal:
			subtotal = t.Amount
		case TotalTypeFulfillment:
			fulfillment = t.Amount
		case TotalTypeTax:
			tax = t.Amount
		case TotalTypeTotal:
			total = t.Amount
		}
	}
	if total != subtotal+fulfillment+tax {
		errs = append(errs, ErrTotalsMismatch)
	}

	return errs
}
