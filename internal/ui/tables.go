package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tapo-chatter/tapo-chatter/internal/device"
)

// Discovered device table columns
var deviceHeaders = []string{"IP Address", "Name", "Model", "Type", "Connection/Power", "Signal", "MAC"}

// Hub child table columns
var childHeaders = []string{"Device Name", "Device ID", "Type", "Status", "Details"}

const (
	colDeviceIP = iota
	colDeviceName
	colDeviceModel
	colDeviceType
	colDeviceStatus
	colDeviceSignal
	colDeviceMAC
)

const (
	colChildName = iota
	colChildID
	colChildType
	colChildStatus
	colChildDetails
)

// DeviceTable renders discovered devices
func DeviceTable(records []device.Record) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		info := r.DeviceInfo
		rows = append(rows, []string{
			r.IPAddress,
			info.Nickname,
			info.Model,
			info.Type,
			string(info.Status),
			info.SignalLevel.String(),
			info.MAC,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		Headers(deviceHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			style := TableCellStyle
			info := records[row].DeviceInfo
			switch col {
			case colDeviceIP:
				return style.Foreground(AccentColor)
			case colDeviceName:
				return style.Foreground(SuccessColor)
			case colDeviceModel:
				return style.Foreground(AccentColor)
			case colDeviceType:
				return style.Foreground(PrimaryColor)
			case colDeviceStatus:
				return style.Inherit(StatusStyle(string(info.Status)))
			case colDeviceSignal:
				return style.Inherit(SignalStyle(info.SignalQuality))
			case colDeviceMAC:
				return style.Foreground(MutedColor)
			}
			return style
		})

	return TableTitleStyle.Render("Discovered Tapo Devices") + "\n" + t.Render()
}

// ChildTable renders a hub's child devices
func ChildTable(children []device.ChildRecord) string {
	rows := make([][]string, 0, len(children))
	for _, c := range children {
		rows = append(rows, []string{
			c.Nickname,
			c.DeviceID,
			c.DeviceType,
			childStatus(c.Status),
			c.Details(),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		Headers(childHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			style := TableCellStyle
			switch col {
			case colChildName:
				return style.Foreground(AccentColor)
			case colChildID:
				return style.Foreground(PrimaryColor)
			case colChildType:
				return style.Foreground(SuccessColor)
			case colChildStatus:
				return style.Inherit(StatusStyle(childStatus(children[row].Status)))
			case colChildDetails:
				return style.Foreground(MutedColor)
			}
			return style
		})

	return TableTitleStyle.Render("Tapo Hub Child Devices") + "\n" + t.Render()
}

// ChildParamsTable lists every param of one child, for verbose output
func ChildParamsTable(c device.ChildRecord) string {
	rows := make([][]string, 0, len(device.ParamKeys)+2)
	rows = append(rows,
		[]string{"rssi", c.RSSI},
		[]string{"signal_quality", c.SignalQuality},
	)
	for _, key := range device.ParamKeys {
		rows = append(rows, []string{key, c.Params[key]})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		Headers("Param", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 0 {
				return TableCellStyle.Foreground(MutedColor)
			}
			return TableCellStyle
		})

	return TableTitleStyle.Render(c.Nickname+" ("+c.DeviceID+")") + "\n" + t.Render()
}

func childStatus(status int) string {
	if status == 1 {
		return "Online"
	}
	return "Offline"
}

// countLabel formats "1 device" / "3 devices"
func countLabel(n int, singular string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + singular + "s"
}
