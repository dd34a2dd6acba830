package stdlib

// WindowsX86_64 is the Microsoft x64 catalogue: argument registers rcx,
// rdx, r8, r9, shadow space reserved by every leaf call, built on the
// ucrt/kernel32 surface. Bodies are adapted from
// original_source/libs/stdio.py's _init_windows.
func WindowsX86_64() *Catalogue {
	return newCatalogue([]Entry{
		{
			Name: "initstdio",
			Code: []string{
				"_initstdio:",
				"    push rbp",
				"    mov rbp, rsp",
				"    sub rsp, 32",
				"    mov rcx, -11",
				"    call GetStdHandle",
				"    mov [rel _stdout_handle], rax",
				"    mov rcx, -10",
				"    call GetStdHandle",
				"    mov [rel _stdin_handle], rax",
				"    add rsp, 32",
				"    pop rbp",
				"    ret",
			},
			BSS:     []string{"_stdout_handle resq 1", "_stdin_handle resq 1"},
			Externs: []string{"GetStdHandle"},
		},
		{
			Name: "print",
			Code: []string{
				"_print_string:",
				"    push rbp",
				"    mov rbp, rsp",
				"    sub rsp, 32",
				"    mov rdx, rcx",
				"    lea rcx, [rel .fmt_s]",
				"    call printf",
				"    add rsp, 32",
				"    pop rbp",
				"    ret",
				".fmt_s: db \"%s\", 0",
				"",
				"_print_number:",
				"    push rbp",
				"    mov rbp, rsp",
				"    sub rsp, 32",
				"    mov rdx, rcx",
				"    lea rcx, [rel .fmt_n]",
				"    call printf",
				"    add rsp, 32",
				"    pop rbp",
				"    ret",
				".fmt_n: db \"%lld\", 0",
				"",
				"_print_hex:",
				"    push rbp",
				"    mov rbp, rsp",
				"    sub rsp, 32",
				"    mov rdx, rcx",
				"    lea rcx, [rel .fmt_h]",
				"    call printf",
				"    add rsp, 32",
				"    pop rbp",
				"    ret",
				".fmt_h: db \"0x%llX\", 0",
			},
			Externs: []string{"printf"},
		},
		{
			Name:     "_print_newline",
			Code:     []string{"_print_newline:", "    lea rcx, [rel _newline_str]", "    jmp _print_string"},
			Data:     []string{"_newline_str db 10, 0"},
			Requires: []string{"print"},
		},
		{
			Name: "scan",
			Code: []string{
				"_scan_string:",
				"    ; rcx = buffer, rdx = size",
				"    push rbp",
				"    mov rbp, rsp",
				"    sub rsp, 64",
				"    push r12",
				"    push r13",
				"    mov r12, rcx",
				"    mov r13, rdx",
				"    mov rcx, [rel _stdin_handle]",
				"    mov rdx, r12",
				"    mov r8, r13",
				"    lea r9, [rel _bytes_read]",
				"    mov qword [rsp+32], 0",
				"    call ReadConsoleA",
				"    mov rax, [rel _bytes_read]",
				"    cmp rax, 0",
				"    jle .done",
				"    lea rdi, [r12 + rax - 1]",
				".trim:",
				"    cmp rax, 0",
				"    jle .done",
				"    movzx rcx, byte [rdi]",
				"    cmp cl, 13",
				"    je .cut",
				"    cmp cl, 10",
				"    je .cut",
				"    jmp .done",
				".cut:",
				"    mov byte [rdi], 0",
				"    dec rdi",
				"    dec rax",
				"    jmp .trim",
				".done:",
				"    mov byte [r12 + rax], 0",
				"    pop r13",
				"    pop r12",
				"    add rsp, 64",
				"    pop rbp",
				"    ret",
			},
			BSS:      []string{"_bytes_read resd 1"},
			Externs:  []string{"ReadConsoleA"},
			Requires: []string{"initstdio"},
		},
		{
			Name: "scanint",
			Code: []string{
				"_scanint:",
				"    ; rcx = int pointer",
				"    push rbp",
				"    mov rbp, rsp",
				"    sub rsp, 288",
				"    push r12",
				"    mov r12, rcx",
				"    lea rcx, [rsp+32]",
				"    mov rdx, 256",
				"    call _scan_string",
				"    lea rcx, [rsp+32]",
				"    lea rdx, [rel .fmt]",
				"    mov r8, r12",
				"    call sscanf",
				"    pop r12",
				"    add rsp, 288",
				"    pop rbp",
				"    ret",
				".fmt: db \"%lld\", 0",
			},
			Externs:  []string{"sscanf"},
			Requires: []string{"scan"},
		},
		{
			Name: "strlen",
			Code: []string{
				"_strlen:",
				"    xor rax, rax",
				"    mov r10, rcx",
				".loop:",
				"    cmp byte [r10], 0",
				"    je .done",
				"    inc rax",
				"    inc r10",
				"    jmp .loop",
				".done:",
				"    ret",
			},
		},
		{
			Name: "strcpy",
			Code: []string{
				"_strcpy:",
				"    ; rcx = dest, rdx = src",
				"    mov rax, rcx",
				".loop:",
				"    mov r8b, [rdx]",
				"    mov [rcx], r8b",
				"    test r8b, r8b",
				"    jz .done",
				"    inc rcx",
				"    inc rdx",
				"    jmp .loop",
				".done:",
				"    ret",
			},
		},
		{
			Name: "strcmp",
			Code: []string{
				"_strcmp:",
				".loop:",
				"    mov al, [rcx]",
				"    mov dl, [rdx]",
				"    cmp al, dl",
				"    jne .neq",
				"    test al, al",
				"    jz .eq",
				"    inc rcx",
				"    inc rdx",
				"    jmp .loop",
				".eq:",
				"    xor rax, rax",
				"    ret",
				".neq:",
				"    movzx rax, al",
				"    movzx rdx, dl",
				"    sub rax, rdx",
				"    ret",
			},
		},
		{
			Name: "strcat",
			Code: []string{
				"_strcat:",
				"    push r12",
				"    push r13",
				"    mov r12, rcx",
				"    mov r13, rdx",
				".find:",
				"    cmp byte [rcx], 0",
				"    je .copy",
				"    inc rcx",
				"    jmp .find",
				".copy:",
				"    mov al, [r13]",
				"    mov [rcx], al",
				"    test al, al",
				"    jz .done",
				"    inc rcx",
				"    inc r13",
				"    jmp .copy",
				".done:",
				"    mov rax, r12",
				"    pop r13",
				"    pop r12",
				"    ret",
			},
		},
		{
			Name: "abs",
			Code: []string{
				"_abs:", "    mov rax, rcx", "    test rax, rax", "    jns .done", "    neg rax", ".done:", "    ret",
			},
		},
		{
			Name: "min",
			Code: []string{
				"_min:", "    mov rax, rcx", "    cmp rcx, rdx", "    jle .done", "    mov rax, rdx", ".done:", "    ret",
			},
		},
		{
			Name: "max",
			Code: []string{
				"_max:", "    mov rax, rcx", "    cmp rcx, rdx", "    jge .done", "    mov rax, rdx", ".done:", "    ret",
			},
		},
		{
			Name: "pow",
			Code: []string{
				"_pow:", "    push r12", "    push r13", "    mov r12, rcx", "    mov r13, rdx",
				"    mov rax, 1", "    test r13, r13", "    jz .done",
				".loop:", "    imul rax, r12", "    dec r13", "    jnz .loop",
				".done:", "    pop r13", "    pop r12", "    ret",
			},
		},
		{
			Name: "arraysum",
			Code: []string{
				"_arraysum:", "    xor rax, rax", "    test rdx, rdx", "    jz .done",
				".loop:", "    add rax, [rcx]", "    add rcx, 8", "    dec rdx", "    jnz .loop",
				".done:", "    ret",
			},
		},
		{
			Name: "arrayfill",
			Code: []string{
				"_arrayfill:", "    test rdx, rdx", "    jz .done",
				".loop:", "    mov [rcx], r8", "    add rcx, 8", "    dec rdx", "    jnz .loop",
				".done:", "    ret",
			},
		},
		{
			Name: "arraycopy",
			Code: []string{
				"_arraycopy:", "    test r8, r8", "    jz .done",
				".loop:", "    mov rax, [rdx]", "    mov [rcx], rax", "    add rcx, 8", "    add rdx, 8", "    dec r8", "    jnz .loop",
				".done:", "    ret",
			},
		},
		{
			Name: "memset",
			Code: []string{
				"_memset:", "    push r12", "    mov r12, rcx", "    test r8, r8", "    jz .done",
				".loop:", "    mov [rcx], dl", "    inc rcx", "    dec r8", "    jnz .loop",
				".done:", "    mov rax, r12", "    pop r12", "    ret",
			},
		},
		{
			Name: "memcpy",
			Code: []string{
				"_memcpy:", "    push r12", "    mov r12, rcx", "    test r8, r8", "    jz .done",
				".loop:", "    mov al, [rdx]", "    mov [rcx], al", "    inc rcx", "    inc rdx", "    dec r8", "    jnz .loop",
				".done:", "    mov rax, r12", "    pop r12", "    ret",
			},
		},
		{
			Name:    "rand",
			Code:    []string{"_rand:", "    push rbp", "    mov rbp, rsp", "    sub rsp, 32", "    call rand", "    add rsp, 32", "    pop rbp", "    ret"},
			Externs: []string{"rand"},
		},
		{
			Name:    "sleep",
			Code:    []string{"_sleep:", "    push rbp", "    mov rbp, rsp", "    sub rsp, 32", "    call Sleep", "    add rsp, 32", "    pop rbp", "    ret"},
			Externs: []string{"Sleep"},
		},
	})
}
