package printing

import "github.com/agency/backend/internal/domain/shared"

// PrintStatus is a stage of the print production pipeline
type PrintStatus string

const (
	PrintStatusPending         PrintStatus = "pending"
	PrintStatusInDesign        PrintStatus = "in_design"
	PrintStatusDesignCompleted PrintStatus = "design_completed"
	PrintStatusReadyForPrint   PrintStatus = "ready_for_print"
	PrintStatusPrinting        PrintStatus = "printing"
	PrintStatusPrinted         PrintStatus = "printed"
	PrintStatusQualityCheck    PrintStatus = "quality_check"
	PrintStatusCompleted       PrintStatus = "completed"
)

// pipeline is the fixed production order
var pipeline = []PrintStatus{
	PrintStatusPending,
	PrintStatusInDesign,
	PrintStatusDesignCompleted,
	PrintStatusReadyForPrint,
	PrintStatusPrinting,
	PrintStatusPrinted,
	PrintStatusQualityCheck,
	PrintStatusCompleted,
}

var printStatusLabels = map[PrintStatus]string{
	PrintStatusPending:         "قيد الانتظار",
	PrintStatusInDesign:        "قيد التصميم",
	PrintStatusDesignCompleted: "اكتمل التصميم",
	PrintStatusReadyForPrint:   "جاهز للطباعة",
	PrintStatusPrinting:        "قيد الطباعة",
	PrintStatusPrinted:         "تمت الطباعة",
	PrintStatusQualityCheck:    "فحص الجودة",
	PrintStatusCompleted:       "مكتمل",
}

// Pipeline returns a copy of the production pipeline in order
func Pipeline() []PrintStatus {
	out := make([]PrintStatus, len(pipeline))
	copy(out, pipeline)
	return out
}

// Index returns the position of the status in the pipeline, or -1
func (s PrintStatus) Index() int {
	for i, p := range pipeline {
		if p == s {
			return i
		}
	}
	return -1
}

// IsValid checks if the status is part of the pipeline
func (s PrintStatus) IsValid() bool {
	return s.Index() >= 0
}

// String returns the string representation of PrintStatus
func (s PrintStatus) String() string {
	return string(s)
}

// Label returns the Arabic badge text for the status
func (s PrintStatus) Label() string {
	if label, ok := printStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Progress returns index / len(pipeline) * 100. Unknown statuses report 0.
func (s PrintStatus) Progress() float64 {
	idx := s.Index()
	if idx < 0 {
		return 0
	}
	return float64(idx) / float64(len(pipeline)) * 100
}

// Next returns the following pipeline status
func (s PrintStatus) Next() (PrintStatus, error) {
	idx := s.Index()
	if idx < 0 {
		return "", shared.NewDomainError("INVALID_STATUS", "Unknown print status: "+string(s))
	}
	if idx == len(pipeline)-1 {
		return "", shared.NewDomainError("INVALID_STATE", "Print order is already completed")
	}
	return pipeline[idx+1], nil
}
