package printing

// invoiceTemplate is the A4 invoice layout. Labels are Arabic and the page
// is laid out right to left.
const invoiceTemplate = `<!DOCTYPE html>
<html lang="ar" dir="rtl">
<head>
<meta charset="UTF-8">
<title>{{.Number}}</title>
<style>
  body { font-family: "Noto Naskh Arabic", "Segoe UI", sans-serif; font-size: 12px; color: #222; }
  .header { display: flex; justify-content: space-between; align-items: flex-start; border-bottom: 2px solid #333; padding-bottom: 8px; }
  .header img { max-height: 70px; }
  .company h1 { margin: 0; font-size: 20px; }
  .meta td { padding: 2px 8px; }
  table.items { width: 100%; border-collapse: collapse; margin-top: 16px; }
  table.items th, table.items td { border: 1px solid #999; padding: 6px; }
  table.items th { background: #f0f0f0; }
  .num { text-align: left; direction: ltr; }
  .totals { margin-top: 12px; width: 45%; margin-right: auto; border-collapse: collapse; }
  .totals td { padding: 4px 8px; }
  .totals tr.grand td { font-weight: bold; border-top: 2px solid #333; }
  .status { display: inline-block; padding: 2px 10px; border: 1px solid #333; border-radius: 4px; }
  .notes { margin-top: 16px; white-space: pre-wrap; }
</style>
</head>
<body>
<div class="header">
  <div class="company">
    <h1>{{.Company.Name}}</h1>
    {{- with .Company.Address}}<div>{{.}}</div>{{end}}
    {{- with .Company.Phone}}<div class="num">{{.}}</div>{{end}}
    {{- with .Company.Email}}<div>{{.}}</div>{{end}}
    {{- with .Company.TaxNumber}}<div>الرقم الضريبي: {{.}}</div>{{end}}
  </div>
  {{- if .LogoURL}}<img src="{{.LogoURL}}" alt="logo">{{end}}
</div>

<h2>فاتورة <span class="num">{{.Number}}</span> <span class="status">{{.StatusLabel}}</span></h2>
<table class="meta">
  <tr><td>العميل</td><td>{{.Customer.Name}}{{with .Customer.Company}} ({{.}}){{end}}</td></tr>
  {{- with .Customer.Phone}}<tr><td>الهاتف</td><td class="num">{{.}}</td></tr>{{end}}
  <tr><td>تاريخ الإصدار</td><td class="num">{{formatDate .IssueDate}}</td></tr>
  {{- if .DueDate}}<tr><td>تاريخ الاستحقاق</td><td class="num">{{formatDate .DueDate}}</td></tr>{{end}}
</table>

<table class="items">
  <thead>
    <tr><th>#</th><th>البيان</th><th>الكمية</th><th>سعر الوحدة</th><th>المبلغ</th></tr>
  </thead>
  <tbody>
  {{- range $i, $item := .Items}}
    <tr>
      <td class="num">{{inc $i}}</td>
      <td>{{$item.Description}}</td>
      <td class="num">{{$item.Quantity}}</td>
      <td class="num">{{formatNumber $item.UnitPrice}}</td>
      <td class="num">{{formatNumber $item.Amount}}</td>
    </tr>
  {{- end}}
  </tbody>
</table>

<table class="totals">
  <tr><td>المجموع الفرعي</td><td class="num">{{formatMoney .Subtotal .Currency}}</td></tr>
  {{- if not .Discount.IsZero}}<tr><td>الخصم</td><td class="num">{{formatMoney .Discount .Currency}}</td></tr>{{end}}
  <tr><td>الضريبة ({{formatPercent .TaxRate}})</td><td class="num">{{formatMoney .TaxAmount .Currency}}</td></tr>
  <tr class="grand"><td>الإجمالي</td><td class="num">{{formatMoney .Total .Currency}}</td></tr>
  <tr><td>المدفوع</td><td class="num">{{formatMoney .Paid .Currency}}</td></tr>
  <tr><td>المتبقي</td><td class="num">{{formatMoney .Remaining .Currency}}</td></tr>
</table>

{{- with .Notes}}<div class="notes">{{.}}</div>{{end}}
</body>
</html>`

const invoiceFooter = `<div style="font-size:8px;width:100%;text-align:center;"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`
