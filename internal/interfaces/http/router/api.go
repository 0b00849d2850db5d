package router

import (
	"github.com/agency/backend/internal/infrastructure/auth"
	"github.com/agency/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Guard builds the middleware that admits only the given roles.
// A nil Guard leaves every route open to any caller that got past authentication.
type Guard func(roles ...auth.Role) gin.HandlerFunc

func (g Guard) allow(roles ...auth.Role) gin.HandlerFunc {
	if g == nil {
		return nil
	}
	return g(roles...)
}

var (
	financeRoles  = []auth.Role{auth.RoleManager, auth.RoleAccountant}
	printingRoles = []auth.Role{auth.RoleManager, auth.RoleDesigner, auth.RoleStaff}
	crmRoles      = []auth.Role{auth.RoleManager, auth.RoleStaff}
	adminRoles    = []auth.Role{auth.RoleManager}
	functionRoles = []auth.Role{auth.RoleManager, auth.RoleAccountant, auth.RoleStaff}
)

// Handlers holds one handler per API resource
type Handlers struct {
	Customer      *handler.CustomerHandler
	CustomerGroup *handler.CustomerGroupHandler
	Order         *handler.OrderHandler
	Payment       *handler.PaymentHandler
	Invoice       *handler.InvoiceHandler
	Expense       *handler.ExpenseHandler
	Accounting    *handler.AccountingHandler
	PrintOrder    *handler.PrintOrderHandler
	Material      *handler.MaterialHandler
	Webhook       *handler.WebhookHandler
	Evaluation    *handler.EvaluationHandler
	Campaign      *handler.CampaignHandler
	Report        *handler.ReportHandler
	Settings      *handler.SettingsHandler
	Function      *handler.FunctionHandler
	System        *handler.SystemHandler
}

// APIGroups returns the route groups mounted under /api/v1. Admins pass every guard.
func APIGroups(h Handlers, guard Guard) []RouteRegistrar {
	customers := NewDomainGroup("customers", "/customers")
	customers.POST("", h.Customer.Create).
		GET("", h.Customer.List).
		POST("/import", h.Customer.Import).
		GET("/:id", h.Customer.GetByID).
		PUT("/:id", h.Customer.Update).
		DELETE("/:id", h.Customer.Delete)

	groups := NewDomainGroup("customer-groups", "/customer-groups")
	groups.POST("", h.CustomerGroup.Create).
		GET("", h.CustomerGroup.List).
		GET("/:id", h.CustomerGroup.GetByID).
		PUT("/:id", h.CustomerGroup.Update).
		DELETE("/:id", h.CustomerGroup.Delete).
		POST("/:id/members", h.CustomerGroup.AddMembers).
		GET("/:id/members", h.CustomerGroup.ListMembers).
		DELETE("/:id/members/:customer_id", h.CustomerGroup.RemoveMember)

	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", h.Order.Create).
		GET("", h.Order.List).
		GET("/status-summary", h.Order.StatusSummary).
		GET("/debtors", h.Order.Debtors).
		GET("/by-number/:number", h.Order.GetByNumber).
		GET("/:id", h.Order.GetByID).
		PUT("/:id", h.Order.Update).
		PUT("/:id/status", h.Order.UpdateStatus).
		DELETE("/:id", h.Order.Delete)

	payments := NewDomainGroup("payments", "/payments").Use(guard.allow(financeRoles...))
	payments.POST("", h.Payment.Record).
		GET("", h.Payment.List).
		GET("/by-order/:order_id", h.Payment.ListByOrder).
		GET("/:id", h.Payment.GetByID).
		DELETE("/:id", h.Payment.Delete)

	invoices := NewDomainGroup("invoices", "/invoices").Use(guard.allow(financeRoles...))
	invoices.POST("/number", h.Invoice.GenerateNumber).
		POST("", h.Invoice.Create).
		GET("", h.Invoice.List).
		GET("/overdue", h.Invoice.Overdue).
		GET("/:id", h.Invoice.GetByID).
		PUT("/:id", h.Invoice.Update).
		DELETE("/:id", h.Invoice.Delete).
		POST("/:id/issue", h.Invoice.Issue).
		POST("/:id/accounting-entry", h.Invoice.CreateAccountingEntry).
		POST("/:id/payment", h.Invoice.RecordPayment).
		POST("/:id/cancel", h.Invoice.Cancel).
		GET("/:id/pdf", h.Invoice.PDF)

	expenses := NewDomainGroup("expenses", "/expenses").Use(guard.allow(financeRoles...))
	expenses.POST("/number", h.Expense.GenerateNumber).
		POST("", h.Expense.Create).
		GET("", h.Expense.List).
		GET("/:id", h.Expense.GetByID).
		PUT("/:id", h.Expense.Update).
		DELETE("/:id", h.Expense.Delete).
		POST("/:id/receipt", h.Expense.UploadReceipt).
		GET("/:id/receipt", h.Expense.ReceiptURL)

	accounting := NewDomainGroup("accounting", "/accounting").Use(guard.allow(financeRoles...))
	accounting.GET("/trial-balance", h.Accounting.TrialBalance)
	accounting.Group("accounts", "/accounts").
		GET("", h.Accounting.ListAccounts).
		POST("", h.Accounting.CreateAccount).
		PUT("/:id", h.Accounting.RenameAccount).
		DELETE("/:id", h.Accounting.DeleteAccount)
	accounting.Group("journal", "/journal").
		GET("", h.Accounting.ListJournal).
		POST("", h.Accounting.CreateManualEntry).
		GET("/:id", h.Accounting.GetJournalEntry)

	printOrders := NewDomainGroup("print-orders", "/print-orders").Use(guard.allow(printingRoles...))
	printOrders.POST("", h.PrintOrder.Create).
		GET("", h.PrintOrder.List).
		GET("/stages", h.PrintOrder.StageSummary).
		GET("/:id", h.PrintOrder.GetByID).
		PUT("/:id", h.PrintOrder.Update).
		DELETE("/:id", h.PrintOrder.Delete).
		PUT("/:id/status", h.PrintOrder.UpdateStatus).
		POST("/:id/advance", h.PrintOrder.Advance).
		POST("/:id/design-file", h.PrintOrder.UploadDesignFile).
		GET("/:id/design-file", h.PrintOrder.DesignFileURL)

	materials := NewDomainGroup("print-materials", "/print-materials").Use(guard.allow(printingRoles...))
	materials.POST("", h.Material.Create).
		GET("", h.Material.List).
		GET("/low-stock", h.Material.LowStock).
		GET("/:id", h.Material.GetByID).
		PUT("/:id", h.Material.Update).
		DELETE("/:id", h.Material.Delete).
		POST("/:id/stock", h.Material.AdjustStock)

	evaluations := NewDomainGroup("evaluations", "/evaluations").Use(guard.allow(crmRoles...))
	evaluations.POST("", h.Evaluation.Create).
		GET("", h.Evaluation.List).
		GET("/summary", h.Evaluation.Summary).
		POST("/review-request", h.Evaluation.RequestReview).
		GET("/:id", h.Evaluation.GetByID).
		DELETE("/:id", h.Evaluation.Delete)

	campaigns := NewDomainGroup("campaigns", "/campaigns").Use(guard.allow(crmRoles...))
	campaigns.POST("", h.Campaign.Create).
		GET("", h.Campaign.List).
		GET("/:id", h.Campaign.GetByID).
		PUT("/:id", h.Campaign.Update).
		DELETE("/:id", h.Campaign.Delete).
		POST("/:id/schedule", h.Campaign.Schedule).
		POST("/:id/send", h.Campaign.Send).
		GET("/:id/recipients", h.Campaign.ListRecipients)

	reports := NewDomainGroup("reports", "/reports").Use(guard.allow(financeRoles...))
	reports.GET("/dashboard", h.Report.Dashboard).
		GET("/orders", h.Report.Orders).
		GET("/orders/export", h.Report.ExportOrders).
		GET("/payments", h.Report.Payments).
		GET("/payments/export", h.Report.ExportPayments).
		GET("/expenses", h.Report.Expenses).
		GET("/expenses/export", h.Report.ExportExpenses).
		GET("/debtors", h.Report.Debtors).
		GET("/debtors/export", h.Report.ExportDebtors).
		GET("/financial-summary", h.Report.FinancialSummary)

	settings := NewDomainGroup("settings", "/settings").Use(guard.allow(adminRoles...))
	settings.GET("", h.Settings.Get).
		PUT("", h.Settings.Update).
		POST("/logo", h.Settings.UploadLogo).
		GET("/logo", h.Settings.LogoURL)

	webhooks := NewDomainGroup("webhooks", "/webhooks").Use(guard.allow(adminRoles...))
	webhooks.GET("/events", h.Webhook.Events).
		POST("/test", h.Webhook.Test).
		POST("", h.Webhook.Create).
		GET("", h.Webhook.List).
		GET("/:id", h.Webhook.GetByID).
		PUT("/:id", h.Webhook.Update).
		PUT("/:id/active", h.Webhook.SetActive).
		DELETE("/:id", h.Webhook.Delete)

	functions := NewDomainGroup("functions", "/functions").Use(guard.allow(functionRoles...))
	functions.GET("", h.Function.List).
		POST("/:name", h.Function.Invoke)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.Info)

	return []RouteRegistrar{
		customers, groups, orders,
		payments, invoices, expenses, accounting,
		printOrders, materials,
		evaluations, campaigns,
		reports, settings, webhooks, functions, system,
	}
}
