package stdlib

// PosixARM64 is the AArch64 Linux/macOS catalogue: argument registers x0-x7,
// built on libc's variadic printf/scanf. The print trio is adapted directly
// from original_source/libs/stdio.py's arm64 branch; scan/string/math/array
// helpers have no ARM64 counterpart in that source and are synthesized here
// in the same register-discipline and control-flow style as the x86-64
// catalogue, substituting AArch64 addressing (adrp/add, ldr/str, cbz/cbnz).
func PosixARM64() *Catalogue {
	return newCatalogue([]Entry{
		{
			Name: "initstdio",
			Code: []string{"_initstdio:", "    ret"},
		},
		{
			Name: "print",
			Code: []string{
				"_print_string:",
				"    ; x0 has string pointer",
				"    sub sp, sp, #32",
				"    stp x29, x30, [sp, #16]",
				"    add x29, sp, #16",
				"    mov x8, x0",
				"    mov x9, sp",
				"    str x8, [x9]",
				"    adrp x0, _fmt_str@PAGE",
				"    add x0, x0, _fmt_str@PAGEOFF",
				"    bl printf",
				"    ldp x29, x30, [sp, #16]",
				"    add sp, sp, #32",
				"    ret",
				"",
				"_print_number:",
				"    sub sp, sp, #32",
				"    stp x29, x30, [sp, #16]",
				"    add x29, sp, #16",
				"    mov x8, x0",
				"    mov x9, sp",
				"    str x8, [x9]",
				"    adrp x0, _fmt_num@PAGE",
				"    add x0, x0, _fmt_num@PAGEOFF",
				"    bl printf",
				"    ldp x29, x30, [sp, #16]",
				"    add sp, sp, #32",
				"    ret",
				"",
				"_print_hex:",
				"    sub sp, sp, #32",
				"    stp x29, x30, [sp, #16]",
				"    add x29, sp, #16",
				"    mov x8, x0",
				"    mov x9, sp",
				"    str x8, [x9]",
				"    adrp x0, _fmt_hex@PAGE",
				"    add x0, x0, _fmt_hex@PAGEOFF",
				"    bl printf",
				"    ldp x29, x30, [sp, #16]",
				"    add sp, sp, #32",
				"    ret",
			},
			Data:     []string{`_fmt_str: .asciz "%s"`, `_fmt_num: .asciz "%lld"`, `_fmt_hex: .asciz "0x%llX"`},
			Externs:  []string{"printf"},
			Requires: []string{"initstdio"},
		},
		{
			Name: "_print_newline",
			Code: []string{
				"_print_newline:",
				"    adrp x0, _newline_str@PAGE",
				"    add x0, x0, _newline_str@PAGEOFF",
				"    b _print_string",
			},
			Data:     []string{`_newline_str: .asciz "\n"`},
			Requires: []string{"print"},
		},
		{
			Name: "scan",
			Code: []string{
				"_scan_string:",
				"    ; x0 = buffer, x1 = size",
				"    stp x29, x30, [sp, #-16]!",
				"    mov x29, sp",
				"    mov x2, x0",
				"    adrp x0, stdin@PAGE",
				"    ldr x0, [x0, stdin@PAGEOFF]",
				"    bl fgets",
				"    mov x0, x2",
				"    bl _strlen",
				"    cbz x0, .done",
				"    sub x1, x0, #1",
				"    ldrb w2, [x0, x1]",
				"    cmp w2, #10",
				"    b.ne .done",
				"    strb wzr, [x0, x1]",
				".done:",
				"    ldp x29, x30, [sp], #16",
				"    ret",
			},
			Externs:  []string{"fgets", "stdin"},
			Requires: []string{"initstdio", "strlen"},
		},
		{
			Name: "scanint",
			Code: []string{
				"_scanint:",
				"    ; x0 = int pointer",
				"    stp x29, x30, [sp, #-16]!",
				"    mov x29, sp",
				"    mov x1, x0",
				"    adrp x0, .fmt@PAGE",
				"    add x0, x0, .fmt@PAGEOFF",
				"    bl scanf",
				"    ldp x29, x30, [sp], #16",
				"    ret",
				`.fmt: .asciz "%lld"`,
			},
			Externs:  []string{"scanf"},
			Requires: []string{"initstdio"},
		},
		{
			Name: "strlen",
			Code: []string{
				"_strlen:",
				"    mov x1, x0",
				"    mov x0, #0",
				".loop:",
				"    ldrb w2, [x1]",
				"    cbz w2, .done",
				"    add x0, x0, #1",
				"    add x1, x1, #1",
				"    b .loop",
				".done:",
				"    ret",
			},
		},
		{
			Name: "strcpy",
			Code: []string{
				"_strcpy:",
				"    ; x0 = dest, x1 = src",
				"    mov x2, x0",
				".loop:",
				"    ldrb w3, [x1]",
				"    strb w3, [x2]",
				"    cbz w3, .done",
				"    add x1, x1, #1",
				"    add x2, x2, #1",
				"    b .loop",
				".done:",
				"    ret",
			},
		},
		{
			Name: "strcmp",
			Code: []string{
				"_strcmp:",
				".loop:",
				"    ldrb w2, [x0]",
				"    ldrb w3, [x1]",
				"    cmp w2, w3",
				"    b.ne .neq",
				"    cbz w2, .eq",
				"    add x0, x0, #1",
				"    add x1, x1, #1",
				"    b .loop",
				".eq:",
				"    mov x0, #0",
				"    ret",
				".neq:",
				"    sub x0, x2, x3",
				"    ret",
			},
		},
		{
			Name: "strcat",
			Code: []string{
				"_strcat:",
				"    ; x0 = dest, x1 = src",
				"    mov x2, x0",
				".find:",
				"    ldrb w3, [x2]",
				"    cbz w3, .copy",
				"    add x2, x2, #1",
				"    b .find",
				".copy:",
				"    ldrb w3, [x1]",
				"    strb w3, [x2]",
				"    cbz w3, .done",
				"    add x1, x1, #1",
				"    add x2, x2, #1",
				"    b .copy",
				".done:",
				"    ret",
			},
		},
		{
			Name: "abs",
			Code: []string{
				"_abs:",
				"    cmp x0, #0",
				"    b.ge .done",
				"    neg x0, x0",
				".done:",
				"    ret",
			},
		},
		{
			Name: "min",
			Code: []string{
				"_min:",
				"    cmp x0, x1",
				"    b.le .done",
				"    mov x0, x1",
				".done:",
				"    ret",
			},
		},
		{
			Name: "max",
			Code: []string{
				"_max:",
				"    cmp x0, x1",
				"    b.ge .done",
				"    mov x0, x1",
				".done:",
				"    ret",
			},
		},
		{
			Name: "pow",
			Code: []string{
				"_pow:",
				"    mov x2, #1",
				"    cbz x1, .done",
				".loop:",
				"    mul x2, x2, x0",
				"    sub x1, x1, #1",
				"    cbnz x1, .loop",
				".done:",
				"    mov x0, x2",
				"    ret",
			},
		},
		{
			Name: "arraysum",
			Code: []string{
				"_arraysum:",
				"    ; x0 = ptr, x1 = count",
				"    mov x2, #0",
				"    cbz x1, .done",
				".loop:",
				"    ldr x3, [x0]",
				"    add x2, x2, x3",
				"    add x0, x0, #8",
				"    subs x1, x1, #1",
				"    b.ne .loop",
				".done:",
				"    mov x0, x2",
				"    ret",
			},
		},
		{
			Name: "arrayfill",
			Code: []string{
				"_arrayfill:",
				"    ; x0 = ptr, x1 = count, x2 = value",
				"    cbz x1, .done",
				".loop:",
				"    str x2, [x0]",
				"    add x0, x0, #8",
				"    subs x1, x1, #1",
				"    b.ne .loop",
				".done:",
				"    ret",
			},
		},
		{
			Name: "arraycopy",
			Code: []string{
				"_arraycopy:",
				"    ; x0 = dest, x1 = src, x2 = count",
				"    cbz x2, .done",
				".loop:",
				"    ldr x3, [x1]",
				"    str x3, [x0]",
				"    add x0, x0, #8",
				"    add x1, x1, #8",
				"    subs x2, x2, #1",
				"    b.ne .loop",
				".done:",
				"    ret",
			},
		},
		{
			Name: "memset",
			Code: []string{
				"_memset:",
				"    ; x0 = ptr, x1 = byte value, x2 = count",
				"    mov x3, x0",
				"    cbz x2, .done",
				".loop:",
				"    strb w1, [x3]",
				"    add x3, x3, #1",
				"    subs x2, x2, #1",
				"    b.ne .loop",
				".done:",
				"    ret",
			},
		},
		{
			Name: "memcpy",
			Code: []string{
				"_memcpy:",
				"    ; x0 = dest, x1 = src, x2 = count",
				"    mov x3, x0",
				"    cbz x2, .done",
				".loop:",
				"    ldrb w4, [x1]",
				"    strb w4, [x3]",
				"    add x1, x1, #1",
				"    add x3, x3, #1",
				"    subs x2, x2, #1",
				"    b.ne .loop",
				".done:",
				"    ret",
			},
		},
		{
			Name:    "rand",
			Code:    []string{"_rand:", "    stp x29, x30, [sp, #-16]!", "    mov x29, sp", "    bl rand", "    ldp x29, x30, [sp], #16", "    ret"},
			Externs: []string{"rand"},
		},
		{
			Name: "sleep",
			Code: []string{
				"_sleep:",
				"    ; x0 has milliseconds",
				"    mov x1, #1000",
				"    mul x0, x0, x1",
				"    stp x29, x30, [sp, #-16]!",
				"    mov x29, sp",
				"    bl usleep",
				"    ldp x29, x30, [sp], #16",
				"    ret",
			},
			Externs: []string{"usleep"},
		},
	})
}
