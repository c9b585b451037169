// Package rtl generates the SystemVerilog register block module.
//
// Every piece of the module is a component.Feature attached to the node of
// the register block, register or bit field it describes. NewRegistry lists
// them; Render assembles the module from a built tree.
package rtl
