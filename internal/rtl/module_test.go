package rtl

import (
	"strings"
	"testing"

	"svreg/internal/component"
	"svreg/internal/regmap"
)

const smallMap = `
[[register_block]]
name = "block_0"
byte_size = 256

[[register_block.register]]
name = "register_0"
offset_address = 0x00
[[register_block.register.bit_field]]
name = "bit_field_0"
lsb = 0
width = 8
type = "rw"
initial_value = 0

[[register_block.register]]
name = "register_1"
offset_address = 0x10
size = [2]
[[register_block.register.bit_field]]
name = "bit_field_0"
lsb = 0
type = "rwe"
initial_value = 1
`

const smallModule = `module block_0
  import rggen_rtl_pkg::*;
#(
  parameter int ADDRESS_WIDTH = 8,
  parameter bit PRE_DECODE = 0,
  parameter bit [ADDRESS_WIDTH-1:0] BASE_ADDRESS = '0,
  parameter bit ERROR_STATUS = 0,
  parameter bit [31:0] DEFAULT_READ_DATA = '0,
  parameter int ID_WIDTH = 0,
  parameter bit WRITE_FIRST = 1
)(
  input logic i_clk,
  input logic i_rst_n,
  rggen_axi4lite_if.slave axi4lite_if,
  output logic [7:0] o_register_0_bit_field_0,
  input logic [1:0] i_register_1_bit_field_0_enable,
  output logic [1:0] o_register_1_bit_field_0
);
  rggen_register_if #(ADDRESS_WIDTH, 32, 32) register_if[3]();
  rggen_axi4lite_adapter #(
    .ID_WIDTH             (ID_WIDTH),
    .ADDRESS_WIDTH        (ADDRESS_WIDTH),
    .LOCAL_ADDRESS_WIDTH  (8),
    .BUS_WIDTH            (32),
    .REGISTERS            (3),
    .PRE_DECODE           (PRE_DECODE),
    .BASE_ADDRESS         (BASE_ADDRESS),
    .BYTE_SIZE            (256),
    .ERROR_STATUS         (ERROR_STATUS),
    .DEFAULT_READ_DATA    (DEFAULT_READ_DATA),
    .WRITE_FIRST          (WRITE_FIRST)
  ) u_adapter (
    .i_clk        (i_clk),
    .i_rst_n      (i_rst_n),
    .axi4lite_if  (axi4lite_if),
    .register_if  (register_if)
  );
  generate if (1) begin : g_register_0
    rggen_bit_field_if #(32) bit_field_if();
    rggen_default_register #(
      .READABLE       (1),
      .WRITABLE       (1),
      .ADDRESS_WIDTH  (8),
      .OFFSET_ADDRESS (8'h00),
      .BUS_WIDTH      (32),
      .DATA_WIDTH     (32)
    ) u_register (
      .i_clk        (i_clk),
      .i_rst_n      (i_rst_n),
      .register_if  (register_if[0]),
      .bit_field_if (bit_field_if)
    );
    if (1) begin : g_bit_field_0
      localparam bit [7:0] INITIAL_VALUE = 8'h00;
      rggen_bit_field_if #(8) bit_field_sub_if();
      ` + "`" + `rggen_connect_bit_field_if(bit_field_if, bit_field_sub_if, 0, 8)
      rggen_bit_field_rw #(
        .WIDTH          (8),
        .INITIAL_VALUE  (INITIAL_VALUE)
      ) u_bit_field (
        .i_clk        (i_clk),
        .i_rst_n      (i_rst_n),
        .bit_field_if (bit_field_sub_if),
        .o_value      (o_register_0_bit_field_0)
      );
    end
  end endgenerate
  generate if (1) begin : g_register_1
    genvar i;
    for (i = 0;i < 2;++i) begin : g
      rggen_bit_field_if #(32) bit_field_if();
      rggen_default_register #(
        .READABLE       (1),
        .WRITABLE       (1),
        .ADDRESS_WIDTH  (8),
        .OFFSET_ADDRESS (8'h10+4*i),
        .BUS_WIDTH      (32),
        .DATA_WIDTH     (32)
      ) u_register (
        .i_clk        (i_clk),
        .i_rst_n      (i_rst_n),
        .register_if  (register_if[1+i]),
        .bit_field_if (bit_field_if)
      );
      if (1) begin : g_bit_field_0
        localparam bit INITIAL_VALUE = 1'h1;
        rggen_bit_field_if #(1) bit_field_sub_if();
        ` + "`" + `rggen_connect_bit_field_if(bit_field_if, bit_field_sub_if, 0, 1)
        rggen_bit_field_rwe #(
          .WIDTH          (1),
          .INITIAL_VALUE  (INITIAL_VALUE)
        ) u_bit_field (
          .i_clk        (i_clk),
          .i_rst_n      (i_rst_n),
          .bit_field_if (bit_field_sub_if),
          .i_enable     (i_register_1_bit_field_0_enable[i]),
          .o_value      (o_register_1_bit_field_0[i])
        );
      end
    end
  end endgenerate
endmodule
`

func TestGenerateModule(t *testing.T) {
	block := parseBlock(t, smallMap, testConfig())
	got, err := Generate(block, component.All())
	if err != nil {
		t.Fatal(err)
	}
	if got != smallModule {
		t.Fatalf("unexpected module:\n%s\nwant:\n%s", got, smallModule)
	}
	again, err := Generate(block, component.All())
	if err != nil || again != got {
		t.Fatalf("second build differs")
	}
}

func TestAXI4LiteUnfoldedPorts(t *testing.T) {
	cfg := testConfig()
	cfg.FoldInterfacePort = false
	got, err := Generate(parseBlock(t, smallMap, cfg), component.All())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"  input logic i_awvalid,\n",
		"  output logic o_awready,\n",
		"  input logic [((ID_WIDTH>0)?ID_WIDTH:1)-1:0] i_awid,\n",
		"  input logic [ADDRESS_WIDTH-1:0] i_awaddr,\n",
		"  input logic [2:0] i_awprot,\n",
		"  input logic [3:0] i_wstrb,\n",
		"  output logic [31:0] o_rdata,\n",
		"  output logic [1:0] o_rresp,\n",
		"  rggen_axi4lite_if #(ID_WIDTH, ADDRESS_WIDTH, 32) axi4lite_if();\n",
		"  assign axi4lite_if.awvalid = i_awvalid;\n",
		"  assign o_awready = axi4lite_if.awready;\n",
		"  assign o_rresp = axi4lite_if.rresp;\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(got, "rggen_axi4lite_if.slave") {
		t.Errorf("interface port must not be declared when unfolded")
	}
	adapter := strings.Index(got, "u_adapter")
	assign := strings.Index(got, "assign axi4lite_if.awvalid")
	if adapter < 0 || assign < adapter {
		t.Errorf("assignments must follow the adapter instance")
	}
}

func TestAPBAdapter(t *testing.T) {
	cfg := testConfig()
	cfg.Protocol = regmap.ProtocolAPB
	got, err := Generate(parseBlock(t, smallMap, cfg), component.All())
	if err != nil {
		t.Fatal(err)
	}
	want := "  rggen_apb_adapter #(\n" +
		"    .ADDRESS_WIDTH        (ADDRESS_WIDTH),\n" +
		"    .LOCAL_ADDRESS_WIDTH  (8),\n" +
		"    .BUS_WIDTH            (32),\n" +
		"    .REGISTERS            (3),\n" +
		"    .PRE_DECODE           (PRE_DECODE),\n" +
		"    .BASE_ADDRESS         (BASE_ADDRESS),\n" +
		"    .BYTE_SIZE            (256),\n" +
		"    .ERROR_STATUS         (ERROR_STATUS),\n" +
		"    .DEFAULT_READ_DATA    (DEFAULT_READ_DATA)\n" +
		"  ) u_adapter (\n" +
		"    .i_clk        (i_clk),\n" +
		"    .i_rst_n      (i_rst_n),\n" +
		"    .apb_if       (apb_if),\n" +
		"    .register_if  (register_if)\n" +
		"  );\n"
	if !strings.Contains(got, want) {
		t.Fatalf("apb adapter missing:\n%s", got)
	}
	if strings.Contains(got, "ID_WIDTH") {
		t.Fatalf("apb must not declare axi parameters")
	}
}

func TestDisabledDependencyIsReported(t *testing.T) {
	block := parseBlock(t, smallMap, testConfig())
	_, err := Generate(block, component.Enable("register", "bit_field"))
	if err == nil || !strings.Contains(err.Error(), IDBlockTop) {
		t.Fatalf("expected missing block top error, got %v", err)
	}
}
