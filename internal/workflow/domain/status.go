package domain

// DesignStatus is the lifecycle status of a single print item's design work.
type DesignStatus string

const (
	DesignReceivedInfo               DesignStatus = "received_info"
	DesignDesigning                  DesignStatus = "designing"
	DesignEditing                    DesignStatus = "editing"
	DesignWaitingForCustomerApproval DesignStatus = "waiting_for_customer_approval"
	DesignConfirmedForPrinting       DesignStatus = "confirmed_for_printing"

	// DesignApproved is the legacy approval status still emitted by older
	// design screens. It is not part of the guarded state machine.
	DesignApproved DesignStatus = "approved"
)

// OrderStatus is deliberately loose: no transition table constrains it.
type OrderStatus string

const (
	OrderPending              OrderStatus = "pending"
	OrderWaitingForProofing   OrderStatus = "waiting_for_proofing"
	OrderProofed              OrderStatus = "proofed"
	OrderWaitingForProduction OrderStatus = "waiting_for_production"
	OrderInProduction         OrderStatus = "in_production"
	OrderCompleted            OrderStatus = "completed"
	OrderInvoiceIssued        OrderStatus = "invoice_issued"
	OrderCancelled            OrderStatus = "cancelled"

	// workflow and legacy variants
	OrderNew                 OrderStatus = "new"
	OrderDesigning           OrderStatus = "designing"
	OrderWaitingApproval     OrderStatus = "waiting_approval"
	OrderConfirmed           OrderStatus = "confirmed"
	OrderProductionCompleted OrderStatus = "production_completed"
)

type ProductionStatus string

const (
	ProductionNotStarted ProductionStatus = "not_started"
	ProductionPending    ProductionStatus = "pending"
	ProductionInProgress ProductionStatus = "in_progress"
	ProductionCompleted  ProductionStatus = "completed"
	ProductionCancelled  ProductionStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentNotStarted    PaymentStatus = "not_started"
	PaymentPending       PaymentStatus = "pending"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentCompleted     PaymentStatus = "completed"
	PaymentRefunded      PaymentStatus = "refunded"
)

// StatusInfo is the human-readable side of a status value.
type StatusInfo struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var designStatuses = []StatusInfo{
	{string(DesignReceivedInfo), "Received info", "Brief and artwork received from the customer"},
	{string(DesignDesigning), "Designing", "Designer is preparing the first draft"},
	{string(DesignEditing), "Editing", "Customer requested changes, designer is revising"},
	{string(DesignWaitingForCustomerApproval), "Waiting for customer approval", "Proof sent, waiting for the customer to approve or request changes"},
	{string(DesignConfirmedForPrinting), "Confirmed for printing", "Customer approved the final design"},
}

var orderStatuses = []StatusInfo{
	{string(OrderPending), "Pending", "Order received, not yet processed"},
	{string(OrderWaitingForProofing), "Waiting for proofing", "Proof is being prepared or reviewed"},
	{string(OrderProofed), "Proofed", "Proof approved by the customer"},
	{string(OrderWaitingForProduction), "Waiting for production", "Queued for the production floor"},
	{string(OrderInProduction), "In production", "Being printed"},
	{string(OrderCompleted), "Completed", "Production finished and handed over"},
	{string(OrderInvoiceIssued), "Invoice issued", "Invoice sent to the customer"},
	{string(OrderCancelled), "Cancelled", "Order cancelled"},
	{string(OrderNew), "New", "Legacy: order received"},
	{string(OrderDesigning), "Designing", "Legacy: design in progress"},
	{string(OrderWaitingApproval), "Waiting approval", "Legacy: waiting for customer approval"},
	{string(OrderConfirmed), "Confirmed", "Design approved, order confirmed for production"},
	{string(OrderProductionCompleted), "Production completed", "Production reported the job done"},
}

var productionStatuses = []StatusInfo{
	{string(ProductionNotStarted), "Not started", "No production task exists yet"},
	{string(ProductionPending), "Pending", "Production task created and queued"},
	{string(ProductionInProgress), "In progress", "Job is on the press"},
	{string(ProductionCompleted), "Completed", "Job finished"},
	{string(ProductionCancelled), "Cancelled", "Production task cancelled"},
}

var paymentStatuses = []StatusInfo{
	{string(PaymentNotStarted), "Not started", "No payment record exists yet"},
	{string(PaymentPending), "Pending", "Payment record created, awaiting payment"},
	{string(PaymentPartiallyPaid), "Partially paid", "Deposit or partial payment received"},
	{string(PaymentCompleted), "Completed", "Fully paid"},
	{string(PaymentRefunded), "Refunded", "Payment refunded"},
}

// Catalog groups every known status by the entity it belongs to.
type Catalog struct {
	Design     []StatusInfo `json:"design"`
	Order      []StatusInfo `json:"order"`
	Production []StatusInfo `json:"production"`
	Payment    []StatusInfo `json:"payment"`
}

// StatusCatalog returns a copy of the full catalog.
func StatusCatalog() Catalog {
	return Catalog{
		Design:     append([]StatusInfo(nil), designStatuses...),
		Order:      append([]StatusInfo(nil), orderStatuses...),
		Production: append([]StatusInfo(nil), productionStatuses...),
		Payment:    append([]StatusInfo(nil), paymentStatuses...),
	}
}

func lookup(list []StatusInfo, v string) (StatusInfo, bool) {
	for _, info := range list {
		if info.Value == v {
			return info, true
		}
	}
	return StatusInfo{}, false
}

func (s DesignStatus) String() string { return string(s) }

// IsKnown reports whether s belongs to the guarded design state machine.
func (s DesignStatus) IsKnown() bool {
	_, ok := lookup(designStatuses, string(s))
	return ok
}

func (s DesignStatus) Label() string {
	if info, ok := lookup(designStatuses, string(s)); ok {
		return info.Label
	}
	return string(s)
}

func (s DesignStatus) Description() string {
	info, _ := lookup(designStatuses, string(s))
	return info.Description
}

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) IsKnown() bool {
	_, ok := lookup(orderStatuses, string(s))
	return ok
}

func (s OrderStatus) Label() string {
	if info, ok := lookup(orderStatuses, string(s)); ok {
		return info.Label
	}
	return string(s)
}

func (s OrderStatus) Description() string {
	info, _ := lookup(orderStatuses, string(s))
	return info.Description
}

func (s ProductionStatus) String() string { return string(s) }

func (s ProductionStatus) IsKnown() bool {
	_, ok := lookup(productionStatuses, string(s))
	return ok
}

func (s ProductionStatus) Label() string {
	if info, ok := lookup(productionStatuses, string(s)); ok {
		return info.Label
	}
	return string(s)
}

func (s ProductionStatus) Description() string {
	info, _ := lookup(productionStatuses, string(s))
	return info.Description
}

func (s PaymentStatus) String() string { return string(s) }

func (s PaymentStatus) IsKnown() bool {
	_, ok := lookup(paymentStatuses, string(s))
	return ok
}

func (s PaymentStatus) Label() string {
	if info, ok := lookup(paymentStatuses, string(s)); ok {
		return info.Label
	}
	return string(s)
}

func (s PaymentStatus) Description() string {
	info, _ := lookup(paymentStatuses, string(s))
	return info.Description
}
