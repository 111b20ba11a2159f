package service

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
)

// ItemInput one evaluated checklist item as submitted by an inspector.
type ItemInput struct {
	ItemCode string `json:"item_code"`
	Status   string `json:"status"`
	Remark   string `json:"remark"`
}

// TemplateItemRef the slice of a template item the calculator needs.
type TemplateItemRef struct {
	ItemCode           string
	IsDisposalCriteria bool
}

// EvaluateOverallStatus derives the pass/fail summary: abnormal if any
// evaluated item is abnormal. An empty item set passes vacuously.
func EvaluateOverallStatus(items []ItemInput) string {
	for _, item := range items {
		if item.Status == entity.OverallStatusAbnormal {
			return entity.OverallStatusAbnormal
		}
	}
	return entity.OverallStatusNormal
}

// EvaluateMachineStatus derives the machine disposition.
//
// Disposal takes precedence but only when every disposal-criteria item in the
// template has a matching evaluated entry with abnormal status. A
// disposal-criteria item that is normal, or was not evaluated at all, blocks
// disposal regardless of everything else. Otherwise any abnormal item means
// repair, else operational.
func EvaluateMachineStatus(items []ItemInput, templateItems []TemplateItemRef) string {
	var disposalItems []TemplateItemRef
	for _, t := range templateItems {
		if t.IsDisposalCriteria {
			disposalItems = append(disposalItems, t)
		}
	}

	if len(disposalItems) > 0 {
		byCode := make(map[string]string, len(items))
		for _, item := range items {
			byCode[item.ItemCode] = item.Status
		}

		allAbnormal := true
		for _, d := range disposalItems {
			if byCode[d.ItemCode] != entity.OverallStatusAbnormal {
				allAbnormal = false
				break
			}
		}
		if allAbnormal {
			return entity.MachineStatusPendingDisposal
		}
	}

	for _, item := range items {
		if item.Status == entity.OverallStatusAbnormal {
			return entity.MachineStatusRepair
		}
	}
	return entity.MachineStatusOperational
}

// ValidateItems checks each submitted item: the status must be one of the two
// valid values, and abnormal items must carry a remark. Returns the ordered
// human-readable messages; empty means valid. No I/O, no cross-item rules.
func ValidateItems(items []ItemInput) []string {
	var errs []string
	for _, item := range items {
		if item.Status != entity.OverallStatusNormal && item.Status != entity.OverallStatusAbnormal {
			errs = append(errs, fmt.Sprintf("รายการ %s: กรุณาระบุสถานะ", item.ItemCode))
		}
		if item.Status == entity.OverallStatusAbnormal && isBlank(item.Remark) {
			errs = append(errs, fmt.Sprintf("รายการ %s: กรุณาระบุหมายเหตุเมื่อสถานะไม่ปกติ", item.ItemCode))
		}
	}
	return errs
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// GenerateInspectionCode produces INS-<14-digit UTC timestamp>-<3-digit random>.
// The code is display-friendly and advisory; period uniqueness is enforced by
// the storage constraint, not by this value.
func GenerateInspectionCode() string {
	timestamp := time.Now().UTC().Format("20060102150405")
	return fmt.Sprintf("INS-%s-%03d", timestamp, rand.IntN(1000))
}
